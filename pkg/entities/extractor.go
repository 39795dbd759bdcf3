// Package entities is the deterministic regex pass over user messages:
// emails, phones, LinkedIn profiles, websites, and years of experience.
// Its output feeds the classifier prompt as pre-extracted entities and
// serves as the fallback classification when the LLM path fails.
package entities

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns compiled once at package init.
var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?1?[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%.]+/?`)
	websitePattern  = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s,;<>"']+\.[A-Za-z]{2,}[^\s,;<>"']*`)
	yearsPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
	nonDigit        = regexp.MustCompile(`\D`)
)

// Entities holds everything the regex pass found in one message.
type Entities struct {
	Email    string
	Phone    string // normalized NNN-NNN-NNNN
	LinkedIn string // raw match; catalog normalization canonicalizes
	Website  string // first non-LinkedIn URL
	Years    int    // 0 when absent
	HasYears bool
}

// IsEmpty reports whether nothing was extracted.
func (e Entities) IsEmpty() bool {
	return e.Email == "" && e.Phone == "" && e.LinkedIn == "" && e.Website == "" && !e.HasYears
}

// Extract runs the full regex pass over one message. Deterministic: the
// first match of each kind wins.
func Extract(text string) Entities {
	var out Entities

	out.Email = emailPattern.FindString(text)
	out.LinkedIn = strings.TrimSuffix(linkedInPattern.FindString(text), "/")

	// Phone matching runs on text with the email removed so digits inside
	// an address never look like a number.
	phoneText := text
	if out.Email != "" {
		phoneText = strings.ReplaceAll(phoneText, out.Email, " ")
	}
	if raw := phonePattern.FindString(phoneText); raw != "" {
		out.Phone = normalizePhone(raw)
	}

	for _, candidate := range websitePattern.FindAllString(text, -1) {
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, "linkedin.com") {
			continue
		}
		if out.Email != "" && strings.Contains(out.Email, candidate) {
			continue
		}
		out.Website = strings.TrimSuffix(candidate, "/")
		break
	}

	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out.Years = n
			out.HasYears = true
		}
	}

	return out
}

// normalizePhone reduces a raw match to NNN-NNN-NNNN, stripping a leading
// US country code.
func normalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return digits
	}
	return digits[0:3] + "-" + digits[3:6] + "-" + digits[6:10]
}
