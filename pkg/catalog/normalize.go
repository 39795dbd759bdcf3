package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guestwise/guestflow/pkg/models"
)

// Validators and normalizers are pure functions over the value union.
// Normalizers always run before validation, so validators may assume
// canonical form.

var (
	emailPattern    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/([A-Za-z0-9\-_%.]+)/?`)
	phonePattern    = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	websitePattern  = regexp.MustCompile(`^https://[^\s]+\.[^\s]{2,}$`)
	yearsPattern    = regexp.MustCompile(`(\d{1,2})\s*\+?\s*(?:years?|yrs?)?`)
	nonDigit        = regexp.MustCompile(`\D`)
	wordSplit       = regexp.MustCompile(`\s+`)
)

func validateName(v models.Value) bool {
	if v.Kind != models.KindText {
		return false
	}
	name := strings.TrimSpace(v.Text)
	return len(name) >= 2 && len(name) <= 120 && strings.Contains(name, " ")
}

func normalizeName(v models.Value) models.Value {
	if v.Kind != models.KindText {
		return v
	}
	words := wordSplit.Split(strings.TrimSpace(v.Text), -1)
	for i, w := range words {
		// Preserve internal capitalization (McGregor, van der Berg keeps
		// the user's form); only lift an all-lowercase word.
		if w == strings.ToLower(w) && w != "" {
			r := []rune(w)
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return models.TextValue(strings.Join(words, " "))
}

func validateEmail(v models.Value) bool {
	return v.Kind == models.KindText && emailPattern.MatchString(v.Text)
}

func normalizeEmail(v models.Value) models.Value {
	if v.Kind != models.KindText {
		return v
	}
	return models.TextValue(strings.ToLower(strings.TrimSpace(v.Text)))
}

func validateLinkedIn(v models.Value) bool {
	return v.Kind == models.KindURL && linkedInPattern.MatchString(v.URL)
}

// normalizeLinkedIn canonicalizes any recognizable LinkedIn reference to
// https://www.linkedin.com/in/<slug>.
func normalizeLinkedIn(v models.Value) models.Value {
	raw := ""
	switch v.Kind {
	case models.KindURL:
		raw = v.URL
	case models.KindText:
		raw = v.Text
	default:
		return v
	}
	m := linkedInPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return models.URLValue(strings.TrimSpace(raw))
	}
	slug := strings.TrimSuffix(m[1], "/")
	return models.URLValue("https://www.linkedin.com/in/" + slug)
}

func validatePhone(v models.Value) bool {
	return v.Kind == models.KindText && phonePattern.MatchString(v.Text)
}

// normalizePhone strips everything but digits, drops a leading US country
// code, and formats ten digits as NNN-NNN-NNNN. Anything else is left as
// bare digits for the validator to reject.
func normalizePhone(v models.Value) models.Value {
	if v.Kind != models.KindText {
		return v
	}
	digits := nonDigit.ReplaceAllString(v.Text, "")
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return models.TextValue(digits)
	}
	return models.TextValue(digits[0:3] + "-" + digits[3:6] + "-" + digits[6:10])
}

func validateWebsite(v models.Value) bool {
	return v.Kind == models.KindURL && websitePattern.MatchString(v.URL)
}

func normalizeWebsite(v models.Value) models.Value {
	raw := ""
	switch v.Kind {
	case models.KindURL:
		raw = v.URL
	case models.KindText:
		raw = v.Text
	default:
		return v
	}
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "/"))
	raw = strings.TrimPrefix(raw, "http://")
	if !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return models.URLValue(raw)
}

func validateSocial(v models.Value) bool {
	return v.Kind == models.KindSocial && v.Social != nil && v.Social.Raw != ""
}

func normalizeSocial(v models.Value) models.Value {
	// Free-form strings are expanded by ParseSocial before storage; by the
	// time a value reaches the normalizer it is already structured.
	if v.Kind == models.KindText {
		if profiles := ParseSocial(v.Text); len(profiles) > 0 {
			return models.SocialValue(profiles[0])
		}
	}
	return v
}

func validateYears(v models.Value) bool {
	return v.Kind == models.KindNumber && v.Number >= 0 && v.Number <= 70
}

// normalizeYears parses "12", "12 years", "12+ yrs" into a Number. The raw
// string form is not retained.
func normalizeYears(v models.Value) models.Value {
	switch v.Kind {
	case models.KindNumber:
		return v
	case models.KindText:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Text)); err == nil {
			return models.NumberValue(n)
		}
		if m := yearsPattern.FindStringSubmatch(v.Text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return models.NumberValue(n)
			}
		}
	}
	return v
}

func validateShortText(v models.Value) bool {
	if v.Kind != models.KindText {
		return false
	}
	t := strings.TrimSpace(v.Text)
	return len(t) >= 2 && len(t) <= 300
}

func validateLongText(v models.Value) bool {
	if v.Kind != models.KindText {
		return false
	}
	t := strings.TrimSpace(v.Text)
	return len(t) >= 10 && len(t) <= 2000
}

// validateStory accepts a free-text story or a structured one.
func validateStory(v models.Value) bool {
	switch v.Kind {
	case models.KindText:
		return len(strings.TrimSpace(v.Text)) >= 10
	case models.KindStory:
		return v.Story != nil && v.Story.Subject != ""
	}
	return false
}

func normalizeText(v models.Value) models.Value {
	if v.Kind != models.KindText {
		return v
	}
	return models.TextValue(strings.TrimSpace(v.Text))
}
