package classifier

import (
	"fmt"
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/entities"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// recentMessageWindow is how many trailing messages the prompt includes.
const recentMessageWindow = 5

const systemPrompt = `You are the message classifier inside a podcast-guest profile assistant.
Given the catalog of profile buckets, the conversation so far, and the user's
new message, decide what the user is doing and which buckets their message
fills. Respond with a single JSON object and nothing else.`

const formatInstructions = `Respond with JSON in exactly this shape:
{
  "bucket_updates": {
    "<bucket_id>": {"value": <string, number, or array of strings>, "confidence": 0.0-1.0}
  },
  "user_intent": "provide_info|acknowledgment|correction|completion|review|question|hint_linkedin",
  "intent_confidence": 0.0-1.0,
  "ambiguous": false,
  "needs_clarification": false,
  "reasoning": "one short sentence"
}

Rules:
- Extract ONLY what the user states explicitly. Never infer or invent values.
- Use a JSON array for multi-value buckets (expertise_keywords, success_stories,
  achievements, podcast_topics, speaking_experience, promotion_items, social_media).
- When the user declines an optional bucket ("I don't have a website"), OMIT
  that bucket from bucket_updates entirely.
- years_experience must be a plain number, no units.
- Keep social_media entries in the user's own format.
- user_intent "correction" when the user is fixing something already stored.
- user_intent "completion" when the user wants to finish ("I'm done", "that's all").
- user_intent "review" when the user asks to see what you have.
- user_intent "hint_linkedin" when the user suggests pulling info from LinkedIn
  without giving the URL.
- Set "ambiguous" and "needs_clarification" when you genuinely cannot tell.`

// PromptBuilder composes the classification prompt from catalog and state.
// Stateless; all state comes from parameters.
type PromptBuilder struct{}

// NewPromptBuilder creates a PromptBuilder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// System returns the system prompt.
func (b *PromptBuilder) System() string {
	return systemPrompt
}

// Build composes the user prompt for one classification call.
func (b *PromptBuilder) Build(conv *state.Conversation, message string, ents entities.Entities) string {
	var sb strings.Builder

	sb.WriteString("## Bucket catalog\n\n")
	b.writeCatalogSummary(&sb)

	sb.WriteString("\n## Currently filled buckets\n\n")
	b.writeFilledBuckets(&sb, conv)

	sb.WriteString("\n## Empty required buckets\n\n")
	empty := conv.EmptyRequired()
	if len(empty) == 0 {
		sb.WriteString("(none — profile complete)\n")
	} else {
		for _, id := range empty {
			fmt.Fprintf(&sb, "- %s\n", id)
		}
	}

	sb.WriteString("\n## Recent conversation\n\n")
	b.writeRecentMessages(&sb, conv)

	if !ents.IsEmpty() {
		sb.WriteString("\n## Pre-extracted entities (regex pass)\n\n")
		b.writeEntities(&sb, ents)
	}

	fmt.Fprintf(&sb, "\n## New user message\n\n%s\n\n", message)
	sb.WriteString(formatInstructions)

	return sb.String()
}

func (b *PromptBuilder) writeCatalogSummary(sb *strings.Builder) {
	for _, def := range catalog.All() {
		multiplicity := "single"
		if def.AllowMultiple {
			multiplicity = "multi"
		}
		required := "optional"
		if def.Required {
			required = "required"
		}
		fmt.Fprintf(sb, "- %s (%s, %s): %s\n", def.ID, required, multiplicity, def.Description)
		for i, ex := range def.ExampleInputs {
			if i >= 2 {
				break
			}
			fmt.Fprintf(sb, "    e.g. %q\n", ex)
		}
	}
}

func (b *PromptBuilder) writeFilledBuckets(sb *strings.Builder, conv *state.Conversation) {
	filled := conv.Filled()
	if len(filled) == 0 {
		sb.WriteString("(none yet)\n")
		return
	}
	for _, id := range filled {
		entries := conv.Entries(id)
		values := make([]string, len(entries))
		for i, e := range entries {
			values[i] = e.Value.String()
		}
		fmt.Fprintf(sb, "- %s: %s\n", id, strings.Join(values, "; "))
	}
}

func (b *PromptBuilder) writeRecentMessages(sb *strings.Builder, conv *state.Conversation) {
	msgs := conv.Messages
	if len(msgs) == 0 {
		sb.WriteString("(first message of the conversation)\n")
		return
	}
	start := len(msgs) - recentMessageWindow
	if start < 0 {
		start = 0
	}
	for _, m := range msgs[start:] {
		role := "User"
		if m.Role == models.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(sb, "%s: %s\n", role, m.Content)
	}
}

func (b *PromptBuilder) writeEntities(sb *strings.Builder, ents entities.Entities) {
	if ents.Email != "" {
		fmt.Fprintf(sb, "- email: %s\n", ents.Email)
	}
	if ents.Phone != "" {
		fmt.Fprintf(sb, "- phone: %s\n", ents.Phone)
	}
	if ents.LinkedIn != "" {
		fmt.Fprintf(sb, "- linkedin_url: %s\n", ents.LinkedIn)
	}
	if ents.Website != "" {
		fmt.Fprintf(sb, "- website: %s\n", ents.Website)
	}
	if ents.HasYears {
		fmt.Fprintf(sb, "- years_experience: %d\n", ents.Years)
	}
}
