package strategy

import (
	"strings"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// Style is the coarse communication style used to pick question templates
// and grouping caps.
type Style string

const (
	StyleVerbose   Style = "verbose"
	StyleConcise   Style = "concise"
	StyleTechnical Style = "technical"
	StyleFormal    Style = "formal"
	StyleUncertain Style = "uncertain"
	StyleCasual    Style = "casual"
)

// Heuristic phrase tables. Frequency, not presence, drives the technical
// and uncertain classifications.
var (
	jargonTerms = []string{
		"api", "saas", "b2b", "kpi", "roi", "arr", "mrr", "pipeline",
		"stack", "infrastructure", "algorithm", "optimization", "scalab",
		"framework", "architecture", "latency", "throughput", "ml", "llm",
	}
	politePhrases = []string{
		"thank you", "i would", "certainly", "i appreciate", "kindly",
		"please", "regards", "i am pleased",
	}
	hedgingPhrases = []string{
		"i think", "maybe", "i guess", "not sure", "i suppose", "kind of",
		"sort of", "probably", "i'm not certain", "possibly", "um", "hmm",
	}
	impatiencePhrases = []string{
		"again", "already told", "i said", "hurry", "how much longer",
		"how many more", "is this almost", "come on", "seriously",
		"this is taking", "just finish",
	}
)

const (
	verboseAvgLength = 100
	conciseAvgLength = 30
)

// DetectStyle classifies the user's communication style from their
// messages. First matching rule wins: verbose, concise, technical,
// formal, uncertain, else casual.
func DetectStyle(conv *state.Conversation) Style {
	var userMessages []string
	total := 0
	for _, m := range conv.Messages {
		if m.Role == models.RoleUser {
			userMessages = append(userMessages, strings.ToLower(m.Content))
			total += len(m.Content)
		}
	}
	if len(userMessages) == 0 {
		return StyleCasual
	}

	avg := total / len(userMessages)
	if avg > verboseAvgLength {
		return StyleVerbose
	}
	if avg < conciseAvgLength {
		return StyleConcise
	}

	jargon := countOccurrences(userMessages, jargonTerms)
	if jargon >= 2 {
		return StyleTechnical
	}
	if countOccurrences(userMessages, politePhrases) >= 2 {
		return StyleFormal
	}
	if countOccurrences(userMessages, hedgingPhrases) >= 2 {
		return StyleUncertain
	}
	return StyleCasual
}

// CommunicationStyle maps the detected style onto the three stored axes.
func CommunicationStyle(s Style) state.CommunicationStyle {
	out := state.CommunicationStyle{Formality: "casual", DetailLevel: "moderate", Pace: "measured"}
	switch s {
	case StyleVerbose:
		out.DetailLevel = "detailed"
	case StyleConcise:
		out.DetailLevel = "brief"
		out.Pace = "quick"
	case StyleFormal:
		out.Formality = "formal"
	case StyleTechnical:
		out.DetailLevel = "detailed"
	case StyleUncertain:
		out.Pace = "measured"
	}
	return out
}

// DetectFrustration appends frustration indicators for this turn: the
// user repeating themselves, expressing impatience, or correcting often.
// Returns the triggers recorded.
func DetectFrustration(conv *state.Conversation, updateResult *models.UpdateResult) []string {
	var triggers []string

	lastIdx := -1
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role == models.RoleUser {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return nil
	}
	last := conv.Messages[lastIdx]
	lower := strings.ToLower(last.Content)

	for _, phrase := range impatiencePhrases {
		if strings.Contains(lower, phrase) {
			triggers = append(triggers, "impatience: "+phrase)
			break
		}
	}

	// Repetition: the same user content appeared before the current user
	// message. The current message itself never counts, regardless of
	// whether an assistant reply follows it in the log.
	seen := 0
	for _, m := range conv.Messages[:lastIdx] {
		if m.Role == models.RoleUser && strings.EqualFold(strings.TrimSpace(m.Content), strings.TrimSpace(last.Content)) {
			seen++
		}
	}
	if seen > 0 && len(strings.TrimSpace(last.Content)) > 3 {
		triggers = append(triggers, "repeated message")
	}

	if updateResult != nil && len(updateResult.CorrectionsApplied) >= 2 {
		triggers = append(triggers, "many corrections in one turn")
	}
	if len(conv.UserCorrections) >= 4 {
		triggers = append(triggers, "accumulated corrections")
	}

	for _, t := range triggers {
		conv.AddFrustrationIndicator(t)
	}
	return triggers
}

func countOccurrences(messages []string, phrases []string) int {
	n := 0
	for _, m := range messages {
		for _, p := range phrases {
			if strings.Contains(m, p) {
				n++
			}
		}
	}
	return n
}
