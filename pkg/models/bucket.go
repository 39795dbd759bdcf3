// Package models holds the shared vocabulary of the dialogue engine:
// bucket identifiers, the value union stored in buckets, user intents,
// classification and update results, and the profile summary.
package models

// BucketID identifies one slot of profile information to collect.
type BucketID string

// The full bucket catalog. Definitions (cardinality, validators,
// normalizers) live in pkg/catalog; these are just the identifiers.
const (
	// Contact
	BucketFullName    BucketID = "full_name"
	BucketEmail       BucketID = "email"
	BucketLinkedInURL BucketID = "linkedin_url"
	BucketPhone       BucketID = "phone"
	BucketWebsite     BucketID = "website"
	BucketSocialMedia BucketID = "social_media"

	// Professional
	BucketCurrentRole     BucketID = "current_role"
	BucketCompany         BucketID = "company"
	BucketProfessionalBio BucketID = "professional_bio"
	BucketYearsExperience BucketID = "years_experience"

	// Expertise
	BucketExpertiseKeywords BucketID = "expertise_keywords"
	BucketSuccessStories    BucketID = "success_stories"
	BucketAchievements      BucketID = "achievements"
	BucketUniquePerspective BucketID = "unique_perspective"

	// Podcast focus
	BucketPodcastTopics      BucketID = "podcast_topics"
	BucketTargetAudience     BucketID = "target_audience"
	BucketKeyMessage         BucketID = "key_message"
	BucketSpeakingExperience BucketID = "speaking_experience"

	// Misc
	BucketPromotionItems       BucketID = "promotion_items"
	BucketSchedulingPreference BucketID = "scheduling_preference"
	BucketIdealPodcast         BucketID = "ideal_podcast"
)

// Category groups buckets for summaries and question grouping.
type Category string

const (
	CategoryContact      Category = "contact"
	CategoryProfessional Category = "professional"
	CategoryExpertise    Category = "expertise"
	CategoryPodcast      Category = "podcast"
	CategoryMisc         Category = "misc"
)

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryContact, CategoryProfessional, CategoryExpertise, CategoryPodcast, CategoryMisc:
		return true
	}
	return false
}
