package buckets

import (
	"fmt"
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
)

// coerce converts a raw classifier value (untyped JSON) into typed values
// for one bucket. Multi-value buckets may yield several values from one
// raw update; social media strings expand through the platform parser.
func coerce(def *catalog.Definition, raw any) ([]models.Value, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return coerceString(def, v), nil
	case float64:
		return []models.Value{models.NumberValue(int(v))}, nil
	case int:
		return []models.Value{models.NumberValue(v)}, nil
	case []any:
		var out []models.Value
		for _, item := range v {
			coerced, err := coerce(def, item)
			if err != nil {
				return nil, err
			}
			out = append(out, coerced...)
		}
		return out, nil
	case []string:
		var out []models.Value
		for _, item := range v {
			out = append(out, coerceString(def, item)...)
		}
		return out, nil
	case map[string]any:
		return coerceMap(def, v)
	default:
		return nil, models.NewValidationError(def.ID, fmt.Sprintf("unsupported value type %T", raw))
	}
}

func coerceString(def *catalog.Definition, s string) []models.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	switch def.ID {
	case models.BucketSocialMedia:
		profiles := catalog.ParseSocial(s)
		out := make([]models.Value, len(profiles))
		for i, p := range profiles {
			out[i] = models.SocialValue(p)
		}
		return out
	}
	switch def.DataType {
	case catalog.TypeURL:
		return []models.Value{models.URLValue(s)}
	case catalog.TypeNumber:
		// The normalizer parses "12 years" style strings.
		return []models.Value{models.TextValue(s)}
	default:
		return []models.Value{models.TextValue(s)}
	}
}

// coerceMap handles structured values: stories with subject/challenge/
// action/result, and pre-decomposed social profiles.
func coerceMap(def *catalog.Definition, m map[string]any) ([]models.Value, error) {
	if def.ID == models.BucketSocialMedia {
		p := models.SocialProfile{
			Platform: stringField(m, "platform"),
			Handle:   stringField(m, "handle"),
			URL:      stringField(m, "url"),
			Raw:      stringField(m, "raw"),
		}
		if p.Raw == "" {
			p.Raw = firstNonEmpty(p.URL, p.Handle, p.Platform)
		}
		return []models.Value{models.SocialValue(p)}, nil
	}

	if subject := firstNonEmpty(stringField(m, "subject"), stringField(m, "title"), stringField(m, "story")); subject != "" {
		story := models.Story{
			Subject:   subject,
			Challenge: stringField(m, "challenge"),
			Action:    stringField(m, "action"),
			Result:    stringField(m, "result"),
		}
		if metrics, ok := m["metrics"].([]any); ok {
			for _, metric := range metrics {
				if s, ok := metric.(string); ok {
					story.Metrics = append(story.Metrics, s)
				}
			}
		}
		return []models.Value{models.StoryValue(story)}, nil
	}

	if value := stringField(m, "value"); value != "" {
		return coerceString(def, value), nil
	}
	return nil, models.NewValidationError(def.ID, "unrecognized object value")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isDuplicate reports whether candidate matches an existing entry: exact
// equality, case-insensitive substring containment (either direction), or
// key-field match for structured values.
func isDuplicate(existing []models.Entry, candidate models.Value) bool {
	for _, e := range existing {
		if e.Value.Equal(candidate) {
			return true
		}
		switch candidate.Kind {
		case models.KindText, models.KindURL:
			a := strings.ToLower(strings.TrimSpace(e.Value.String()))
			b := strings.ToLower(strings.TrimSpace(candidate.String()))
			if a == "" || b == "" {
				continue
			}
			if strings.Contains(a, b) || strings.Contains(b, a) {
				return true
			}
		case models.KindStory:
			if e.Value.Kind == models.KindStory && e.Value.Story != nil && candidate.Story != nil &&
				strings.EqualFold(e.Value.Story.Subject, candidate.Story.Subject) {
				return true
			}
		case models.KindSocial:
			if e.Value.Kind == models.KindSocial && e.Value.Social != nil && candidate.Social != nil {
				if strings.EqualFold(e.Value.Social.Platform, candidate.Social.Platform) &&
					(strings.EqualFold(e.Value.Social.Handle, candidate.Social.Handle) ||
						strings.EqualFold(e.Value.Social.URL, candidate.Social.URL)) {
					return true
				}
			}
		case models.KindNumber:
			if e.Value.Kind == models.KindNumber && e.Value.Number == candidate.Number {
				return true
			}
		}
	}
	return false
}
