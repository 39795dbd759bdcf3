package responder

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// softCap is the length a non-summary reply is trimmed back to, at a
// sentence boundary.
const softCap = 700

var spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

// polish cleans up a composed reply: collapses space runs without
// touching newlines, removes adjacent duplicated words, guarantees
// terminal punctuation, and soft-caps length. Summaries are exempt from
// the cap so review output is never truncated.
func polish(reply string, isSummary bool) string {
	out := strings.TrimSpace(reply)
	if out == "" {
		return out
	}

	out = spaceRuns.ReplaceAllString(out, " ")
	out = collapseDuplicateWords(out)

	if !isSummary && len(out) > softCap {
		out = trimAtSentence(out, softCap)
	}

	last := out[len(out)-1]
	if last != '.' && last != '!' && last != '?' {
		out += "."
	}
	return out
}

// collapseDuplicateWords drops a word that immediately repeats the
// previous one, case-insensitively, line by line.
func collapseDuplicateWords(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		words := strings.Split(line, " ")
		kept := words[:0]
		prev := ""
		for _, w := range words {
			if prev != "" && isWord(w) && strings.EqualFold(w, prev) {
				continue
			}
			kept = append(kept, w)
			prev = w
		}
		lines[i] = strings.Join(kept, " ")
	}
	return strings.Join(lines, "\n")
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}

// trimAtSentence cuts at the last sentence end before limit, falling back
// to a hard cut with an ellipsis when no boundary exists. The limit backs
// up to a rune boundary so multibyte characters are never split.
func trimAtSentence(s string, limit int) string {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	cut := s[:limit]
	idx := strings.LastIndexAny(cut, ".!?")
	if idx > 0 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut) + "..."
}
