package search

import (
	"strings"
)

type TurnKind string

const (
	// TurnQuery is a new search.
	TurnQuery TurnKind = "query"
	// TurnMore asks for the next page of the previous search.
	TurnMore TurnKind = "more"
	// TurnEmpty carries no text at all.
	TurnEmpty TurnKind = "empty"
)

var moreTurns = map[string]struct{}{
	"more":         {},
	"show more":    {},
	"more please":  {},
	"more results": {},
	"next":         {},
	"next page":    {},
	"see more":     {},
}

// ClassifyTurn decides whether a message is a pagination request or a new
// query. Matching is exact after trimming punctuation, so "more dental
// clinics" is still a new query.
func ClassifyTurn(text string) TurnKind {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimRight(t, ".!? ")
	if t == "" {
		return TurnEmpty
	}
	if _, ok := moreTurns[strings.Join(strings.Fields(t), " ")]; ok {
		return TurnMore
	}
	return TurnQuery
}
