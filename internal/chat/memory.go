// Package chat answers natural-language questions about upcoming events,
// deciding between the vector index and the live web fallback.
package chat

import (
	"fmt"
	"strings"
)

type Turn struct {
	Role string
	Text string
}

// History is the bounded conversation window injected into follow-up
// questions: only the most recent max exchanges are retained. Scoped to one
// session, append-only.
type History struct {
	max   int
	turns []Turn
}

func NewHistory(maxExchanges int) *History {
	if maxExchanges <= 0 {
		maxExchanges = 3
	}
	return &History{max: maxExchanges}
}

// AddExchange records one question/answer pair, evicting the oldest exchange
// once the window is full.
func (h *History) AddExchange(question, answer string) {
	h.turns = append(h.turns, Turn{Role: "Utilisateur", Text: question}, Turn{Role: "Assistant", Text: answer})
	if over := len(h.turns) - 2*h.max; over > 0 {
		h.turns = h.turns[over:]
	}
}

func (h *History) Turns() []Turn {
	return h.turns
}

// Render formats the window for prompt injection.
func (h *History) Render() string {
	if len(h.turns) == 0 {
		return "(aucun échange précédent)"
	}
	var sb strings.Builder
	for _, t := range h.turns {
		fmt.Fprintf(&sb, "%s : %s\n", t.Role, t.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}
