// Package assistant holds the client side of the chat assistant: the conversation
// and the recognition of schedule changes in its replies.
package assistant

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCreated
	ActionDeleted
	ActionUpdated
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreated:
		return "created"
	case ActionDeleted:
		return "deleted"
	case ActionUpdated:
		return "updated"
	default:
		return "none"
	}
}

// Action is a schedule mutation confirmed by the assistant.
type Action struct {
	Kind   ActionKind
	Phrase string // the configured phrase that matched
	Fuzzy  bool
}

var (
	kindStems = []struct {
		kind  ActionKind
		stems []string
	}{
		{ActionDeleted, []string{"삭제", "제거", "deleted", "removed"}},
		{ActionUpdated, []string{"수정", "변경", "업데이트", "updated", "changed"}},
		{ActionCreated, []string{"등록", "추가", "생성", "added", "created"}},
	}

	// a sentence carrying one of these reports a failure, however close it is to a phrase
	negations = []string{"not", "never", "failed", "unable", "cannot", "n't", "않", "못", "실패"}

	sentenceSep = regexp.MustCompile(`[\n.!?]+`)
	spaces      = regexp.MustCompile(`\s+`)
)

// MutationDetector recognises mutation confirmations in assistant replies.
type MutationDetector struct {
	phrases    []string
	similarity float64
}

// NewMutationDetector returns a detector matching phrases; sentences at least similarity
// close (0..1] to a phrase also match. similarity <= 0 disables fuzzy matching.
func NewMutationDetector(phrases []string, similarity float64) *MutationDetector {
	det := &MutationDetector{similarity: similarity}
	for _, p := range phrases {
		if p = normalize(p); p != "" {
			det.phrases = append(det.phrases, p)
		}
	}
	return det
}

func normalize(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(strings.ToLower(s), " "))
}

// Detect returns the action confirmed by reply, if any.
func (det *MutationDetector) Detect(reply string) (Action, bool) {
	text := normalize(reply)
	if text == "" {
		return Action{}, false
	}
	for _, p := range det.phrases {
		if strings.Contains(text, p) {
			return Action{Kind: kindOf(p), Phrase: p}, true
		}
	}
	if det.similarity <= 0 {
		return Action{}, false
	}

	var (
		best      string
		bestRatio float64
	)
	for _, sentence := range sentenceSep.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		chars := strings.Split(sentence, "")
		for _, p := range det.phrases {
			if negated(sentence, p) {
				continue
			}
			m := difflib.NewMatcher(chars, strings.Split(p, ""))
			if q := m.QuickRatio(); q < det.similarity || q <= bestRatio {
				continue
			}
			if r := m.Ratio(); r >= det.similarity && r > bestRatio {
				best, bestRatio = p, r
			}
		}
	}
	if best == "" {
		return Action{}, false
	}
	return Action{Kind: kindOf(best), Phrase: best, Fuzzy: true}, true
}

// negated reports whether sentence carries a negation that phrase does not.
func negated(sentence, phrase string) bool {
	words := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, neg := range negations {
		if containsNegation(phrase, neg, strings.Fields(phrase)) {
			continue
		}
		if containsNegation(sentence, neg, words) {
			return true
		}
	}
	return false
}

func containsNegation(s, neg string, words []string) bool {
	if neg == "n't" || !isASCII(neg) {
		return strings.Contains(s, neg)
	}
	for _, w := range words {
		if w == neg {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func kindOf(phrase string) ActionKind {
	for _, ks := range kindStems {
		for _, stem := range ks.stems {
			if strings.Contains(phrase, stem) {
				return ks.kind
			}
		}
	}
	return ActionUpdated
}
