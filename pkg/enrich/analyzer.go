// Package enrich resolves LinkedIn profile URLs into prefill data for
// the guest profile, with caching.
package enrich

import "context"

// Profile is the enrichment result. Empty fields are simply not
// prefilled; a nil Profile means the URL yielded nothing.
type Profile struct {
	ProfessionalBio   string   `json:"professional_bio"`
	ExpertiseKeywords []string `json:"expertise_keywords"`
	YearsExperience   int      `json:"years_experience"`
	SuccessStories    []string `json:"success_stories"`
	PodcastTopics     []string `json:"podcast_topics"`
	UniquePerspective string   `json:"unique_perspective"`
	TargetAudience    string   `json:"target_audience"`
	KeyAchievements   []string `json:"key_achievements"`
}

// Analyzer turns a LinkedIn profile URL into prefill data. Returns
// (nil, nil) when the profile yields nothing usable.
type Analyzer interface {
	Analyze(ctx context.Context, profileURL string) (*Profile, error)
}

// NopAnalyzer never yields a profile. Used when enrichment is disabled.
type NopAnalyzer struct{}

func (NopAnalyzer) Analyze(context.Context, string) (*Profile, error) {
	return nil, nil
}
