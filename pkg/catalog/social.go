package catalog

import (
	"regexp"
	"strings"

	"github.com/guestwise/guestflow/pkg/models"
)

// platformPattern recognizes one social platform's profile URLs and
// extracts the handle.
type platformPattern struct {
	platform string
	regex    *regexp.Regexp
}

// URL patterns compiled once. Order matters: more specific hosts first.
var platformPatterns = []platformPattern{
	{"twitter", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:twitter|x)\.com/@?([A-Za-z0-9_]{1,30})`)},
	{"instagram", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/([A-Za-z0-9_.]{1,40})`)},
	{"facebook", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?facebook\.com/([A-Za-z0-9.]{1,60})`)},
	{"youtube", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?youtube\.com/(@?[A-Za-z0-9_\-.]{1,60})`)},
	{"tiktok", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?tiktok\.com/@([A-Za-z0-9_.]{1,40})`)},
	{"github", regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/([A-Za-z0-9\-]{1,60})`)},
}

// mentionPattern matches "@handle on twitter" / "twitter: @handle" wording.
var (
	handleOnPlatform = regexp.MustCompile(`(?i)@?([A-Za-z0-9_.\-]{2,40})\s+on\s+([A-Za-z]+)`)
	platformColon    = regexp.MustCompile(`(?i)^([A-Za-z][A-Za-z ]{1,20}):\s*(.+)$`)
	bareHandle       = regexp.MustCompile(`^@[A-Za-z0-9_.\-]{2,40}$`)
)

// knownPlatforms maps spoken platform names to canonical ids.
var knownPlatforms = map[string]string{
	"twitter": "twitter", "x": "twitter",
	"instagram": "instagram", "ig": "instagram",
	"facebook": "facebook", "fb": "facebook",
	"youtube": "youtube", "tiktok": "tiktok",
	"github": "github", "threads": "threads",
	"bluesky": "bluesky", "mastodon": "mastodon",
}

// ParseSocial decomposes a free-form social-media string into structured
// profiles. A comma- or newline-separated input yields multiple profiles.
// Unrecognized fragments fall back to platform "other" with the raw text
// preserved.
func ParseSocial(raw string) []models.SocialProfile {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var profiles []models.SocialProfile
	for _, fragment := range splitSocial(raw) {
		if p, ok := parseFragment(fragment); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles
}

// splitSocial splits on commas, newlines, and " and " joining words.
func splitSocial(raw string) []string {
	raw = strings.NewReplacer("\n", ",", ";", ",", " and ", ",").Replace(raw)
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFragment(fragment string) (models.SocialProfile, bool) {
	// 1. Platform URL patterns.
	for _, pp := range platformPatterns {
		if m := pp.regex.FindStringSubmatch(fragment); m != nil {
			handle := strings.TrimPrefix(m[1], "@")
			return models.SocialProfile{
				Platform: pp.platform,
				Handle:   handle,
				URL:      canonicalURL(pp.platform, handle),
				Raw:      fragment,
			}, true
		}
	}

	// 2. "@handle on platform" wording.
	if m := handleOnPlatform.FindStringSubmatch(fragment); m != nil {
		if platform, ok := knownPlatforms[strings.ToLower(m[2])]; ok {
			return models.SocialProfile{
				Platform: platform,
				Handle:   m[1],
				URL:      canonicalURL(platform, m[1]),
				Raw:      fragment,
			}, true
		}
	}

	// 3. Generic "platform: value" fallback.
	if m := platformColon.FindStringSubmatch(fragment); m != nil {
		platform := strings.ToLower(strings.TrimSpace(m[1]))
		if canonical, ok := knownPlatforms[platform]; ok {
			platform = canonical
		}
		value := strings.TrimSpace(m[2])
		p := models.SocialProfile{Platform: platform, Raw: fragment}
		if strings.Contains(value, "/") {
			p.URL = value
		} else {
			p.Handle = strings.TrimPrefix(value, "@")
		}
		return p, true
	}

	// 4. A bare @handle with no platform context.
	if bareHandle.MatchString(fragment) {
		return models.SocialProfile{
			Platform: "other",
			Handle:   strings.TrimPrefix(fragment, "@"),
			Raw:      fragment,
		}, true
	}

	// Keep unrecognized fragments rather than dropping user input.
	return models.SocialProfile{Platform: "other", Raw: fragment}, true
}

// canonicalURL builds the profile URL for platforms with a stable scheme.
func canonicalURL(platform, handle string) string {
	switch platform {
	case "twitter":
		return "https://twitter.com/" + handle
	case "instagram":
		return "https://www.instagram.com/" + handle
	case "facebook":
		return "https://www.facebook.com/" + handle
	case "youtube":
		if !strings.HasPrefix(handle, "@") {
			handle = "@" + handle
		}
		return "https://www.youtube.com/" + handle
	case "tiktok":
		return "https://www.tiktok.com/@" + handle
	case "github":
		return "https://github.com/" + handle
	}
	return ""
}
