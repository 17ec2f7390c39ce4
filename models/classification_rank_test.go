package models

import "testing"

func TestClassificationRank_CaseInsensitive(t *testing.T) {
	ranks := DefaultClassificationRanks()

	for _, spelling := range []string{"SUPERVISOR", "supervisor", "Supervisor", "  supervisor  "} {
		if got := ranks.Rank(spelling); got != 1 {
			t.Fatalf("Rank(%q) = %d, want 1", spelling, got)
		}
	}
}

func TestClassificationRank_DefaultHierarchy(t *testing.T) {
	ranks := DefaultClassificationRanks()

	order := []string{"SUPERVISOR", "PROJECT_MANAGER", "GENERAL_FOREMAN", "FOREMAN", "JOURNEYMAN", "APPRENTICE"}
	for i, classification := range order {
		if got := ranks.Rank(classification); got != i+1 {
			t.Fatalf("Rank(%s) = %d, want %d", classification, got, i+1)
		}
	}
}

func TestClassificationRank_UnknownSortsLast(t *testing.T) {
	ranks := DefaultClassificationRanks()

	for _, unknown := range []string{"", "WELDER", "laborer"} {
		if got := ranks.Rank(unknown); got != UnrankedClassification {
			t.Fatalf("Rank(%q) = %d, want %d", unknown, got, UnrankedClassification)
		}
	}
}

func TestClassificationRank_CustomTableNormalizesKeys(t *testing.T) {
	ranks := NewClassificationRanks(map[string]int{"operator ": 3})

	if got := ranks.Rank("OPERATOR"); got != 3 {
		t.Fatalf("Rank(OPERATOR) = %d, want 3", got)
	}
}
