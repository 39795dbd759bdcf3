package strategy

import (
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// requiredPriority is the order required buckets are asked in.
var requiredPriority = []models.BucketID{
	models.BucketFullName,
	models.BucketEmail,
	models.BucketCurrentRole,
	models.BucketProfessionalBio,
	models.BucketExpertiseKeywords,
	models.BucketPodcastTopics,
	models.BucketSuccessStories,
	models.BucketUniquePerspective,
	models.BucketTargetAudience,
	models.BucketKeyMessage,
}

// optionalPriority is the order optional buckets are asked in.
var optionalPriority = []models.BucketID{
	models.BucketLinkedInURL,
	models.BucketPhone,
	models.BucketYearsExperience,
	models.BucketSpeakingExperience,
	models.BucketAchievements,
	models.BucketIdealPodcast,
	models.BucketCompany,
	models.BucketWebsite,
	models.BucketSocialMedia,
	models.BucketPromotionItems,
	models.BucketSchedulingPreference,
}

// adjacency maps a just-filled bucket to the natural next ask.
var adjacency = map[models.BucketID]models.BucketID{
	models.BucketEmail:       models.BucketLinkedInURL,
	models.BucketLinkedInURL: models.BucketCurrentRole,
	models.BucketCurrentRole: models.BucketKeyMessage,
}

// questionGroups are the only sets a multi-bucket question may combine.
var questionGroups = map[string][]models.BucketID{
	"contact": {
		models.BucketEmail, models.BucketPhone, models.BucketLinkedInURL,
		models.BucketWebsite, models.BucketSocialMedia,
	},
	"background": {
		models.BucketCurrentRole, models.BucketCompany, models.BucketYearsExperience,
	},
	"expertise": {
		models.BucketExpertiseKeywords, models.BucketUniquePerspective,
	},
	"credibility": {
		models.BucketSuccessStories, models.BucketAchievements, models.BucketSpeakingExperience,
	},
	"content": {
		models.BucketPodcastTopics, models.BucketTargetAudience, models.BucketKeyMessage,
	},
}

// rescueBuckets is the minimum viable profile asked for during rescue.
var rescueBuckets = []models.BucketID{
	models.BucketFullName, models.BucketEmail, models.BucketProfessionalBio,
}

// groupOf returns the question group containing the bucket, if any.
func groupOf(id models.BucketID) (string, bool) {
	for name, members := range questionGroups {
		for _, m := range members {
			if m == id {
				return name, true
			}
		}
	}
	return "", false
}

// SameGroup reports whether all ids belong to one question group.
func SameGroup(ids []models.BucketID) bool {
	if len(ids) < 2 {
		return true
	}
	first, ok := groupOf(ids[0])
	if !ok {
		return false
	}
	for _, id := range ids[1:] {
		g, ok := groupOf(id)
		if !ok || g != first {
			return false
		}
	}
	return true
}

// groupCap limits how many buckets one question may combine per style.
func groupCap(style Style) int {
	switch style {
	case StyleVerbose:
		return 3
	case StyleUncertain, StyleConcise:
		return 1
	default:
		return 2
	}
}

// prioritizedEmpty orders empty buckets by the given priority list.
func prioritizedEmpty(conv *state.Conversation, priority []models.BucketID, required bool) []models.BucketID {
	var empty []models.BucketID
	if required {
		empty = conv.EmptyRequired()
	} else {
		empty = conv.EmptyOptional()
	}
	emptySet := make(map[models.BucketID]bool, len(empty))
	for _, id := range empty {
		emptySet[id] = true
	}

	var out []models.BucketID
	for _, id := range priority {
		if emptySet[id] {
			out = append(out, id)
		}
	}
	return out
}

// nextLogical picks the next buckets after an update, preferring the
// adjacency of the highest-priority bucket just filled, then falling back
// to required priority order.
func nextLogical(conv *state.Conversation, justUpdated []models.BucketID, style Style) []models.BucketID {
	cap := groupCap(style)

	for _, updated := range justUpdated {
		next, ok := adjacency[updated]
		if !ok {
			continue
		}
		if conv.IsFilled(next) || conv.IsSkipped(next) {
			continue
		}
		return groupedPick(conv, next, cap)
	}

	if required := prioritizedEmpty(conv, requiredPriority, true); len(required) > 0 {
		return groupedPick(conv, required[0], cap)
	}
	if optional := prioritizedEmpty(conv, optionalPriority, false); len(optional) > 0 {
		return groupedPick(conv, optional[0], cap)
	}
	return nil
}

// groupedPick expands a lead bucket into a group-mate set up to the style
// cap. Grouping never crosses group boundaries.
func groupedPick(conv *state.Conversation, lead models.BucketID, cap int) []models.BucketID {
	picked := []models.BucketID{lead}
	if cap <= 1 {
		return picked
	}

	group, ok := groupOf(lead)
	if !ok {
		return picked
	}
	for _, candidate := range questionGroups[group] {
		if len(picked) >= cap {
			break
		}
		if candidate == lead || conv.IsFilled(candidate) || conv.IsSkipped(candidate) {
			continue
		}
		if len(conv.Entries(candidate)) > 0 {
			continue
		}
		picked = append(picked, candidate)
	}
	return picked
}
