// Package questions turns strategy decisions into natural-language
// question text, adapted to the guest's communication style.
package questions

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
	"github.com/guestwise/guestflow/pkg/strategy"
)

const (
	// personalizationOdds is the chance a question opens with the
	// guest's first name once the conversation is warmed up.
	personalizationOdds = 0.3
	// personalizationMinMessages gates personalization until enough
	// rapport exists.
	personalizationMinMessages = 6
	// fewFilledThreshold appends examples while the profile is sparse.
	fewFilledThreshold = 3
)

// Generator builds question text. The rand source is injected so tests
// can pin the personalization and phrase choices.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator with the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Question renders the ask for the given priority buckets. Multi-bucket
// asks use a combined template when the ids share a question group and a
// template exists; otherwise the lead bucket is asked alone.
func (g *Generator) Question(conv *state.Conversation, ids []models.BucketID, style strategy.Style) string {
	if len(ids) == 0 {
		return ""
	}

	body := ""
	if len(ids) > 1 && strategy.SameGroup(ids) {
		body = combinedFor(ids)
	}
	if body == "" {
		body = singleFor(ids[0], style)
	}

	body = contextualize(conv, ids[0], body)

	if g.shouldShowExamples(conv, style) {
		if ex := exampleSuffix(ids[0]); ex != "" {
			body += " " + ex
		}
	}

	return g.personalize(conv, body)
}

// Transition composes the full assistant turn around a question body:
// optional acknowledgment, optional progress phrase, continuation, then
// the question.
func (g *Generator) Transition(conv *state.Conversation, question string, acknowledged bool) string {
	var parts []string
	if acknowledged {
		parts = append(parts, g.pick(acknowledgments))
		if conv.Momentum == state.MomentumFlowing && g.rng.Float64() < 0.5 {
			parts = append(parts, g.pick(progressPhrases))
		}
		parts = append(parts, g.pick(continuations)+" "+lowerFirst(question))
	} else {
		parts = append(parts, question)
	}
	return strings.Join(parts, " ")
}

// Clarification returns a rephrase request for the ambiguous path.
func (g *Generator) Clarification() string {
	return g.pick(clarifications)
}

// RescueOpener returns a simplifying opener for the rescue path.
func (g *Generator) RescueOpener() string {
	return g.pick(rescueOpeners)
}

func singleFor(id models.BucketID, style strategy.Style) string {
	if q, ok := styledQuestions[templateKey{id, style}]; ok {
		return q
	}
	if q, ok := defaultQuestions[id]; ok {
		return q
	}
	// Unknown bucket: fall back to the catalog description.
	if def, ok := catalog.Get(id); ok {
		return fmt.Sprintf("Could you tell me about %s?", strings.ToLower(def.Name))
	}
	return "Could you tell me a bit more?"
}

func combinedFor(ids []models.BucketID) string {
	if len(ids) == 3 && hasAll(ids, models.BucketEmail, models.BucketPhone, models.BucketLinkedInURL) {
		return threeWayContact
	}
	if len(ids) != 2 {
		return ""
	}
	if q, ok := combinedQuestions[combinedKey{ids[0], ids[1]}]; ok {
		return q
	}
	if q, ok := combinedQuestions[combinedKey{ids[1], ids[0]}]; ok {
		return q
	}
	return ""
}

// shouldShowExamples gates example hints: uncertain guests always get
// them, everyone gets them while the profile is still sparse.
func (g *Generator) shouldShowExamples(conv *state.Conversation, style strategy.Style) bool {
	if style == strategy.StyleUncertain {
		return true
	}
	return len(conv.Filled()) < fewFilledThreshold
}

func exampleSuffix(id models.BucketID) string {
	def, ok := catalog.Get(id)
	if !ok || len(def.ExampleInputs) == 0 {
		return ""
	}
	if len(def.ExampleInputs) == 1 {
		return fmt.Sprintf("For example: %q.", def.ExampleInputs[0])
	}
	return fmt.Sprintf("For example: %q or %q.", def.ExampleInputs[0], def.ExampleInputs[1])
}

// contextualize weaves an already-filled value into the follow-up ask
// where it reads naturally.
func contextualize(conv *state.Conversation, id models.BucketID, body string) string {
	switch id {
	case models.BucketSuccessStories, models.BucketUniquePerspective:
		if years, ok := conv.Value(models.BucketYearsExperience); ok && years.Kind == models.KindNumber {
			return fmt.Sprintf("With %d years in the field, ", years.Number) + lowerFirst(body)
		}
	case models.BucketPodcastTopics:
		if kw, ok := conv.Value(models.BucketExpertiseKeywords); ok {
			return fmt.Sprintf("Given your background in %s, ", kw.String()) + lowerFirst(body)
		}
	}
	return body
}

// personalize occasionally opens with the guest's first name once the
// conversation has warmed up.
func (g *Generator) personalize(conv *state.Conversation, question string) string {
	if len(conv.Messages) < personalizationMinMessages {
		return question
	}
	name, ok := conv.Value(models.BucketFullName)
	if !ok {
		return question
	}
	first := firstName(name.String())
	if first == "" {
		return question
	}
	if g.rng.Float64() >= personalizationOdds {
		return question
	}
	return first + ", " + lowerFirst(question)
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	// Only lowercase a leading ASCII capital; leave names and acronyms
	// like "LinkedIn" intact.
	if s[0] >= 'A' && s[0] <= 'Z' && (len(s) < 2 || s[1] < 'A' || s[1] > 'Z') {
		return strings.ToLower(s[:1]) + s[1:]
	}
	return s
}

func hasAll(ids []models.BucketID, want ...models.BucketID) bool {
	set := make(map[models.BucketID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
