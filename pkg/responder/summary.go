package responder

import (
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// summarySection groups buckets for the review and completion summaries.
type summarySection struct {
	title   string
	buckets []models.BucketID
}

var summarySections = []summarySection{
	{"Contact", []models.BucketID{
		models.BucketFullName, models.BucketEmail, models.BucketPhone,
		models.BucketLinkedInURL, models.BucketWebsite, models.BucketSocialMedia,
	}},
	{"Professional", []models.BucketID{
		models.BucketCurrentRole, models.BucketCompany,
		models.BucketProfessionalBio, models.BucketYearsExperience,
	}},
	{"Expertise", []models.BucketID{
		models.BucketExpertiseKeywords, models.BucketUniquePerspective,
		models.BucketSuccessStories, models.BucketAchievements,
		models.BucketSpeakingExperience,
	}},
	{"Podcast", []models.BucketID{
		models.BucketPodcastTopics, models.BucketTargetAudience,
		models.BucketKeyMessage, models.BucketIdealPodcast,
	}},
	{"Additional", []models.BucketID{
		models.BucketPromotionItems, models.BucketSchedulingPreference,
	}},
}

// CategorizedSummary renders the filled buckets grouped by section. Empty
// sections are omitted; multi-entry buckets join their values.
func CategorizedSummary(conv *state.Conversation) string {
	var b strings.Builder
	b.WriteString("Here's what I have so far:\n")

	for _, section := range summarySections {
		var lines []string
		for _, id := range section.buckets {
			entries := conv.Entries(id)
			if len(entries) == 0 {
				continue
			}
			values := make([]string, 0, len(entries))
			for _, e := range entries {
				values = append(values, e.Value.String())
			}
			lines = append(lines, "- "+catalog.HumanName(id)+": "+strings.Join(values, ", "))
		}
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n" + section.title + ":\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// missingSummary lists up to max missing required buckets by human name.
func missingSummary(ids []models.BucketID, max int) string {
	if len(ids) > max {
		ids = ids[:max]
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, strings.ToLower(catalog.HumanName(id)))
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
