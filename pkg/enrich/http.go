package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultCacheTTL = 1 * time.Hour

// HTTPAnalyzer resolves profiles through an enrichment HTTP service.
// token may be empty. Results are cached per normalized URL.
type HTTPAnalyzer struct {
	httpClient *http.Client
	endpoint   string
	token      string
	cache      *cache
}

// NewHTTPAnalyzer creates an analyzer against the given service endpoint.
func NewHTTPAnalyzer(endpoint, token string, cacheTTL time.Duration) *HTTPAnalyzer {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &HTTPAnalyzer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		cache:      newCache(cacheTTL),
	}
}

// OverrideHTTPClientForTest replaces the internal HTTP client.
// For testing only.
func (a *HTTPAnalyzer) OverrideHTTPClientForTest(httpClient *http.Client) {
	a.httpClient = httpClient
}

// Analyze fetches prefill data for a LinkedIn profile URL. Non-LinkedIn
// URLs are rejected; a profile the service cannot resolve returns
// (nil, nil).
func (a *HTTPAnalyzer) Analyze(ctx context.Context, profileURL string) (*Profile, error) {
	normalized, err := validateProfileURL(profileURL)
	if err != nil {
		return nil, err
	}

	if profile, ok := a.cache.get(normalized); ok {
		return profile, nil
	}

	reqURL := a.endpoint + "/v1/profiles?url=" + url.QueryEscape(normalized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", normalized, err)
	}
	defer resp.Body.Close()

	// Unknown profile is a non-result, not an error.
	if resp.StatusCode == http.StatusNotFound {
		a.cache.set(normalized, nil)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrichment service returned HTTP %d for %s", resp.StatusCode, normalized)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}

	a.cache.set(normalized, &profile)
	return &profile, nil
}

// validateProfileURL accepts only linkedin.com profile URLs and returns
// the normalized form.
func validateProfileURL(raw string) (string, error) {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse profile URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return "", fmt.Errorf("unsupported profile host %q", host)
	}
	u.Scheme = "https"
	u.Fragment = ""
	u.RawQuery = ""
	return strings.TrimRight(u.String(), "/"), nil
}
