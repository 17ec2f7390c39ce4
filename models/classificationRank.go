package models

import "strings"

// UnrankedClassification is the sort priority for any classification the
// table does not know; it sorts after every ranked one.
const UnrankedClassification = 999

// ClassificationRanks maps a job classification to its sort priority.
// The table is immutable after construction and injected where needed
// rather than shared as package state.
type ClassificationRanks struct {
	ranks map[string]int
}

func NewClassificationRanks(ranks map[string]int) ClassificationRanks {
	normalized := make(map[string]int, len(ranks))
	for classification, rank := range ranks {
		normalized[normalizeClassification(classification)] = rank
	}
	return ClassificationRanks{ranks: normalized}
}

// DefaultClassificationRanks is the crew hierarchy used on job sites,
// supervisor first.
func DefaultClassificationRanks() ClassificationRanks {
	return NewClassificationRanks(map[string]int{
		"SUPERVISOR":      1,
		"PROJECT_MANAGER": 2,
		"GENERAL_FOREMAN": 3,
		"FOREMAN":         4,
		"JOURNEYMAN":      5,
		"APPRENTICE":      6,
	})
}

// Rank is case-insensitive; unknown classifications resolve to
// UnrankedClassification, never an error.
func (c ClassificationRanks) Rank(classification string) int {
	if rank, ok := c.ranks[normalizeClassification(classification)]; ok {
		return rank
	}
	return UnrankedClassification
}

func normalizeClassification(classification string) string {
	return strings.ToUpper(strings.TrimSpace(classification))
}
