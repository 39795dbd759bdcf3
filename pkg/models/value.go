package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of the Value union.
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindURL    ValueKind = "url"
	KindStory  ValueKind = "story"
	KindSocial ValueKind = "social"
)

// IsValid reports whether the kind is one of the known variants.
func (k ValueKind) IsValid() bool {
	switch k {
	case KindText, KindNumber, KindURL, KindStory, KindSocial:
		return true
	}
	return false
}

// Story is a structured success story. Free-text stories are stored as
// plain Text values; this form is used when the pieces arrive separately
// (e.g. from LinkedIn enrichment).
type Story struct {
	Subject   string   `json:"subject"`
	Challenge string   `json:"challenge,omitempty"`
	Action    string   `json:"action,omitempty"`
	Result    string   `json:"result,omitempty"`
	Metrics   []string `json:"metrics,omitempty"`
}

// SocialProfile is one decomposed social-media reference. Raw preserves
// the user's original wording for display.
type SocialProfile struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle,omitempty"`
	URL      string `json:"url,omitempty"`
	Raw      string `json:"raw"`
}

// Value is the tagged union stored in bucket entries. Exactly the fields
// implied by Kind are populated; the rest stay at their zero values so
// JSON encoding is deterministic.
type Value struct {
	Kind   ValueKind      `json:"kind"`
	Text   string         `json:"text,omitempty"`
	Number int            `json:"number,omitempty"`
	URL    string         `json:"url,omitempty"`
	Story  *Story         `json:"story,omitempty"`
	Social *SocialProfile `json:"social,omitempty"`
}

// TextValue wraps a plain string.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue wraps an integer (years of experience).
func NumberValue(n int) Value { return Value{Kind: KindNumber, Number: n} }

// URLValue wraps a URL reference (linkedin, website).
func URLValue(u string) Value { return Value{Kind: KindURL, URL: u} }

// StoryValue wraps a structured success story.
func StoryValue(s Story) Value { return Value{Kind: KindStory, Story: &s} }

// SocialValue wraps a decomposed social profile.
func SocialValue(p SocialProfile) Value { return Value{Kind: KindSocial, Social: &p} }

// IsZero reports whether the value carries no content.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindNumber:
		return false
	case KindURL:
		return strings.TrimSpace(v.URL) == ""
	case KindStory:
		return v.Story == nil || v.Story.Subject == ""
	case KindSocial:
		return v.Social == nil || v.Social.Raw == ""
	}
	return true
}

// String renders the value for prompts, summaries, and dedup keys.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.Itoa(v.Number)
	case KindURL:
		return v.URL
	case KindStory:
		if v.Story == nil {
			return ""
		}
		parts := []string{v.Story.Subject}
		for _, p := range []string{v.Story.Challenge, v.Story.Action, v.Story.Result} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " — ")
	case KindSocial:
		if v.Social == nil {
			return ""
		}
		if v.Social.URL != "" {
			return v.Social.URL
		}
		if v.Social.Handle != "" {
			return fmt.Sprintf("%s: %s", v.Social.Platform, v.Social.Handle)
		}
		return v.Social.Raw
	}
	return ""
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == other.Text
	case KindNumber:
		return v.Number == other.Number
	case KindURL:
		return v.URL == other.URL
	case KindStory:
		if v.Story == nil || other.Story == nil {
			return v.Story == other.Story
		}
		if v.Story.Subject != other.Story.Subject ||
			v.Story.Challenge != other.Story.Challenge ||
			v.Story.Action != other.Story.Action ||
			v.Story.Result != other.Story.Result ||
			len(v.Story.Metrics) != len(other.Story.Metrics) {
			return false
		}
		for i := range v.Story.Metrics {
			if v.Story.Metrics[i] != other.Story.Metrics[i] {
				return false
			}
		}
		return true
	case KindSocial:
		if v.Social == nil || other.Social == nil {
			return v.Social == other.Social
		}
		return *v.Social == *other.Social
	}
	return false
}

// Clone returns a deep copy sharing no mutable memory with the receiver.
func (v Value) Clone() Value {
	out := v
	if v.Story != nil {
		story := *v.Story
		story.Metrics = append([]string(nil), v.Story.Metrics...)
		out.Story = &story
	}
	if v.Social != nil {
		social := *v.Social
		out.Social = &social
	}
	return out
}
