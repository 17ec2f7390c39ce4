package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func entry(employeeId int, hours float64, workType WorkType) *TimeEntry {
	return &TimeEntry{
		EmployeeId:  employeeId,
		ProjectId:   1,
		HoursWorked: decimal.NewFromFloat(hours),
		WorkType:    workType,
	}
}

func TestSummarizeHours_BucketsByWorkType(t *testing.T) {
	entries := []*TimeEntry{
		entry(1, 8, WorkTypeRegular),
		entry(1, 3, WorkTypeOvertime),
		entry(1, 2, WorkTypeDoubleTime),
	}

	summary := SummarizeHours(entries)

	// DoubleTime counts once in the total but doubled in overtime.
	if got := summary.TotalHours.String(); got != "13" {
		t.Fatalf("TotalHours = %s, want 13", got)
	}
	if got := summary.RegularHours.String(); got != "8" {
		t.Fatalf("RegularHours = %s, want 8", got)
	}
	if got := summary.OvertimeHours.String(); got != "7" {
		t.Fatalf("OvertimeHours = %s, want 7", got)
	}
}

func TestSummarizeHours_RegularPlusWeightedOvertimeNeedNotEqualTotal(t *testing.T) {
	entries := []*TimeEntry{
		entry(1, 4, WorkTypeDoubleTime),
	}
	summary := SummarizeHours(entries)

	if got := summary.TotalHours.String(); got != "4" {
		t.Fatalf("TotalHours = %s, want 4", got)
	}
	if got := summary.OvertimeHours.String(); got != "8" {
		t.Fatalf("OvertimeHours = %s, want 8", got)
	}
	if !summary.RegularHours.IsZero() {
		t.Fatalf("RegularHours = %s, want 0", summary.RegularHours)
	}
}

func TestHoursSummary_MergeEqualsSummarizingUnion(t *testing.T) {
	a := []*TimeEntry{entry(1, 8, WorkTypeRegular), entry(1, 1.5, WorkTypeOvertime)}
	b := []*TimeEntry{entry(2, 6, WorkTypeRegular), entry(2, 2, WorkTypeDoubleTime)}

	merged := SummarizeHours(a)
	merged.Merge(SummarizeHours(b))
	union := SummarizeHours(append(append([]*TimeEntry{}, a...), b...))

	if !merged.TotalHours.Equal(union.TotalHours) ||
		!merged.RegularHours.Equal(union.RegularHours) ||
		!merged.OvertimeHours.Equal(union.OvertimeHours) {
		t.Fatalf("merged %+v != union %+v", merged, union)
	}
}

func TestGroupTimeEntriesByEmployee_SortsByClassificationRank(t *testing.T) {
	employees := map[int]*Employee{
		1: {ID: 1, Name: "Avery", Classification: "apprentice"},
		2: {ID: 2, Name: "Blake", Classification: "SUPERVISOR"},
		3: {ID: 3, Name: "Casey", Classification: "Foreman"},
		4: {ID: 4, Name: "Drew", Classification: "Rigger"}, // unranked
	}
	entries := []*TimeEntry{
		entry(1, 8, WorkTypeRegular),
		entry(4, 8, WorkTypeRegular),
		entry(3, 8, WorkTypeRegular),
		entry(2, 8, WorkTypeRegular),
	}

	groups := GroupTimeEntriesByEmployee(entries, employees, DefaultClassificationRanks())

	want := []string{"Blake", "Casey", "Avery", "Drew"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, name := range want {
		if groups[i].EmployeeName != name {
			t.Fatalf("group[%d] = %s, want %s", i, groups[i].EmployeeName, name)
		}
	}
}

func TestGroupTimeEntriesByEmployee_EqualRankKeepsInsertionOrder(t *testing.T) {
	employees := map[int]*Employee{
		1: {ID: 1, Name: "First", Classification: "JOURNEYMAN"},
		2: {ID: 2, Name: "Second", Classification: "JOURNEYMAN"},
		3: {ID: 3, Name: "Third", Classification: "JOURNEYMAN"},
	}
	entries := []*TimeEntry{
		entry(2, 8, WorkTypeRegular),
		entry(3, 8, WorkTypeRegular),
		entry(1, 8, WorkTypeRegular),
		entry(2, 1, WorkTypeOvertime), // repeat must not reorder
	}

	groups := GroupTimeEntriesByEmployee(entries, employees, DefaultClassificationRanks())

	want := []string{"Second", "Third", "First"}
	for i, name := range want {
		if groups[i].EmployeeName != name {
			t.Fatalf("group[%d] = %s, want %s", i, groups[i].EmployeeName, name)
		}
	}
	if got := groups[0].Subtotal.TotalHours.String(); got != "9" {
		t.Fatalf("Second subtotal = %s, want 9", got)
	}
}

func TestDistinctCounts(t *testing.T) {
	entries := []*TimeEntry{
		{EmployeeId: 1, ProjectId: 10},
		{EmployeeId: 1, ProjectId: 11},
		{EmployeeId: 2, ProjectId: 10},
	}
	if got := DistinctEmployeeCount(entries); got != 2 {
		t.Fatalf("DistinctEmployeeCount = %d, want 2", got)
	}
	if got := DistinctProjectCount(entries); got != 2 {
		t.Fatalf("DistinctProjectCount = %d, want 2", got)
	}
}
