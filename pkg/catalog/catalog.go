// Package catalog declares the static bucket catalog: the ~20 profile
// slots the dialogue collects, with cardinality, validators, normalizers,
// and example inputs. The catalog is immutable after package init and
// freely shared across sessions.
package catalog

import (
	"github.com/guestwise/guestflow/pkg/models"
)

// DataType describes the payload a bucket stores.
type DataType string

const (
	TypeText   DataType = "text"
	TypeEmail  DataType = "email"
	TypeURL    DataType = "url"
	TypeNumber DataType = "number"
	TypeList   DataType = "list"
)

// Definition is the static declaration of one bucket.
type Definition struct {
	ID            models.BucketID
	Name          string // human-readable, used in summaries and questions
	Description   string // shown to the classifier LLM
	Category      models.Category
	Required      bool
	AllowMultiple bool
	MinEntries    int
	MaxEntries    int
	DataType      DataType
	Validate      func(models.Value) bool
	Normalize     func(models.Value) models.Value
	ExampleInputs []string
}

// definitions holds the catalog in declaration order. Serialization and
// prompt building both iterate this order, so it must stay stable.
var definitions = []*Definition{
	// Contact
	{
		ID: models.BucketFullName, Name: "Full name",
		Description: "The guest's full name as it should appear publicly",
		Category:    models.CategoryContact, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateName, Normalize: normalizeName,
		ExampleInputs: []string{"I'm Jane Doe", "My name is Marcus Webb"},
	},
	{
		ID: models.BucketEmail, Name: "Email address",
		Description: "Best email address for podcast hosts to reach the guest",
		Category:    models.CategoryContact, Required: true,
		MaxEntries: 1, DataType: TypeEmail,
		Validate: validateEmail, Normalize: normalizeEmail,
		ExampleInputs: []string{"jane@acme.io", "you can reach me at marcus@webbco.com"},
	},
	{
		ID: models.BucketLinkedInURL, Name: "LinkedIn profile",
		Description: "URL of the guest's LinkedIn profile",
		Category:    models.CategoryContact,
		MaxEntries:  1, DataType: TypeURL,
		Validate: validateLinkedIn, Normalize: normalizeLinkedIn,
		ExampleInputs: []string{"linkedin.com/in/janedoe", "https://www.linkedin.com/in/marcuswebb"},
	},
	{
		ID: models.BucketPhone, Name: "Phone number",
		Description: "Contact phone number",
		Category:    models.CategoryContact,
		MaxEntries:  1, DataType: TypeText,
		Validate: validatePhone, Normalize: normalizePhone,
		ExampleInputs: []string{"555-123-4567", "my cell is (555) 123 4567"},
	},
	{
		ID: models.BucketWebsite, Name: "Website",
		Description: "Personal or company website URL",
		Category:    models.CategoryContact,
		MaxEntries:  1, DataType: TypeURL,
		Validate: validateWebsite, Normalize: normalizeWebsite,
		ExampleInputs: []string{"janedoe.com", "https://www.webbco.com"},
	},
	{
		ID: models.BucketSocialMedia, Name: "Social media",
		Description: "Social media handles or profile URLs, any platform",
		Category:    models.CategoryContact, AllowMultiple: true,
		MaxEntries: 8, DataType: TypeList,
		Validate: validateSocial, Normalize: normalizeSocial,
		ExampleInputs: []string{"@janedoe on Twitter", "instagram.com/janedoe.codes"},
	},

	// Professional
	{
		ID: models.BucketCurrentRole, Name: "Current role",
		Description: "The guest's current job title or role",
		Category:    models.CategoryProfessional, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"I'm the CTO", "Head of Growth at Acme"},
	},
	{
		ID: models.BucketCompany, Name: "Company",
		Description: "The company or organization the guest works for",
		Category:    models.CategoryProfessional,
		MaxEntries:  1, DataType: TypeText,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"Acme Corp", "I run my own consultancy, Webb & Co"},
	},
	{
		ID: models.BucketProfessionalBio, Name: "Professional bio",
		Description: "A short professional biography, a few sentences",
		Category:    models.CategoryProfessional, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateLongText, Normalize: normalizeText,
		ExampleInputs: []string{
			"I've spent 12 years building data platforms for fintech startups",
			"Former agency owner turned fractional CMO for B2B SaaS companies",
		},
	},
	{
		ID: models.BucketYearsExperience, Name: "Years of experience",
		Description: "Years of professional experience, as a number",
		Category:    models.CategoryProfessional,
		MaxEntries:  1, DataType: TypeNumber,
		Validate: validateYears, Normalize: normalizeYears,
		ExampleInputs: []string{"12 years", "about 8 yrs in the industry"},
	},

	// Expertise
	{
		ID: models.BucketExpertiseKeywords, Name: "Expertise keywords",
		Description: "Topics and skills the guest is an expert in",
		Category:    models.CategoryExpertise, Required: true, AllowMultiple: true,
		MinEntries: 3, MaxEntries: 12, DataType: TypeList,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"AI, machine learning, data engineering", "growth marketing and positioning"},
	},
	{
		ID: models.BucketSuccessStories, Name: "Success stories",
		Description: "Concrete wins or case studies the guest can tell on air",
		Category:    models.CategoryExpertise, Required: true, AllowMultiple: true,
		MinEntries: 1, MaxEntries: 6, DataType: TypeList,
		Validate: validateStory, Normalize: normalizeText,
		ExampleInputs: []string{
			"We took a client from $0 to $2M ARR in 18 months",
			"I rebuilt the data pipeline and cut costs 60%",
		},
	},
	{
		ID: models.BucketAchievements, Name: "Achievements",
		Description: "Awards, publications, or other recognitions",
		Category:    models.CategoryExpertise, AllowMultiple: true,
		MaxEntries: 8, DataType: TypeList,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"Forbes 30 under 30", "published two books on leadership"},
	},
	{
		ID: models.BucketUniquePerspective, Name: "Unique perspective",
		Description: "The contrarian or distinctive point of view the guest brings",
		Category:    models.CategoryExpertise, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateLongText, Normalize: normalizeText,
		ExampleInputs: []string{
			"Most founders over-hire; I believe small teams win",
			"AI won't replace marketers, but marketers who ignore data will lose",
		},
	},

	// Podcast focus
	{
		ID: models.BucketPodcastTopics, Name: "Podcast topics",
		Description: "Topics the guest wants to discuss on podcasts",
		Category:    models.CategoryPodcast, Required: true, AllowMultiple: true,
		MinEntries: 2, MaxEntries: 8, DataType: TypeList,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"scaling engineering teams", "the future of AI in healthcare"},
	},
	{
		ID: models.BucketTargetAudience, Name: "Target audience",
		Description: "Who the guest most wants to reach",
		Category:    models.CategoryPodcast, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"early-stage founders", "B2B marketing leaders"},
	},
	{
		ID: models.BucketKeyMessage, Name: "Key message",
		Description: "The one message the guest wants listeners to take away",
		Category:    models.CategoryPodcast, Required: true,
		MaxEntries: 1, DataType: TypeText,
		Validate: validateLongText, Normalize: normalizeText,
		ExampleInputs: []string{
			"You don't need more tools, you need better positioning",
			"Data quality beats model sophistication every time",
		},
	},
	{
		ID: models.BucketSpeakingExperience, Name: "Speaking experience",
		Description: "Previous podcasts, conferences, or talks",
		Category:    models.CategoryPodcast, AllowMultiple: true,
		MaxEntries: 8, DataType: TypeList,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"I've been on the SaaS Revolution podcast", "keynoted at DataConf 2024"},
	},

	// Misc
	{
		ID: models.BucketPromotionItems, Name: "Items to promote",
		Description: "Books, courses, products, or offers the guest wants to promote",
		Category:    models.CategoryMisc, AllowMultiple: true,
		MaxEntries: 5, DataType: TypeList,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"my new book, Ship It", "our free positioning audit"},
	},
	{
		ID: models.BucketSchedulingPreference, Name: "Scheduling preference",
		Description: "When the guest prefers to record",
		Category:    models.CategoryMisc,
		MaxEntries:  1, DataType: TypeText,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"weekday mornings, Pacific time", "Fridays work best"},
	},
	{
		ID: models.BucketIdealPodcast, Name: "Ideal podcast",
		Description: "The kind of show the guest would most like to appear on",
		Category:    models.CategoryMisc,
		MaxEntries:  1, DataType: TypeText,
		Validate: validateShortText, Normalize: normalizeText,
		ExampleInputs: []string{"shows like Lenny's Podcast", "technical shows with founder audiences"},
	},
}

var byID = func() map[models.BucketID]*Definition {
	m := make(map[models.BucketID]*Definition, len(definitions))
	for _, d := range definitions {
		m[d.ID] = d
	}
	return m
}()

// All returns every definition in declaration order.
func All() []*Definition {
	return definitions
}

// Get returns the definition for a bucket id.
func Get(id models.BucketID) (*Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// IDs returns every bucket id in declaration order.
func IDs() []models.BucketID {
	ids := make([]models.BucketID, len(definitions))
	for i, d := range definitions {
		ids[i] = d.ID
	}
	return ids
}

// RequiredIDs returns the ids of required buckets in declaration order.
// The required set is the completion gate.
func RequiredIDs() []models.BucketID {
	var ids []models.BucketID
	for _, d := range definitions {
		if d.Required {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// OptionalIDs returns the ids of optional buckets in declaration order.
func OptionalIDs() []models.BucketID {
	var ids []models.BucketID
	for _, d := range definitions {
		if !d.Required {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// ByCategory returns definitions grouped by category, categories and
// buckets both in declaration order.
func ByCategory() map[models.Category][]*Definition {
	m := make(map[models.Category][]*Definition)
	for _, d := range definitions {
		m[d.Category] = append(m[d.Category], d)
	}
	return m
}

// Validate runs the bucket's validator against a value. Unknown ids fail.
func Validate(id models.BucketID, v models.Value) bool {
	d, ok := byID[id]
	if !ok {
		return false
	}
	return d.Validate(v)
}

// Normalize runs the bucket's normalizer. Unknown ids return the value
// unchanged.
func Normalize(id models.BucketID, v models.Value) models.Value {
	d, ok := byID[id]
	if !ok {
		return v
	}
	return d.Normalize(v)
}

// HumanName returns the display name for a bucket id, falling back to the
// raw id for unknown buckets.
func HumanName(id models.BucketID) string {
	if d, ok := byID[id]; ok {
		return d.Name
	}
	return string(id)
}
