package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// HoursSummary buckets worked hours for payroll-cost estimation.
//
// TotalHours counts every entry's hours once (hours physically worked).
// OvertimeHours counts Overtime at 1x and DoubleTime at 2x, matching
// double-time pay-rate practice without a separate rate table. DoubleTime
// hours therefore appear once in TotalHours but doubled in OvertimeHours;
// that asymmetry is deliberate and relied on by the reports.
type HoursSummary struct {
	TotalHours    decimal.Decimal `json:"total_hours"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

func (s *HoursSummary) Add(entry *TimeEntry) {
	s.TotalHours = s.TotalHours.Add(entry.HoursWorked)
	switch entry.WorkType {
	case WorkTypeOvertime:
		s.OvertimeHours = s.OvertimeHours.Add(entry.HoursWorked)
	case WorkTypeDoubleTime:
		s.OvertimeHours = s.OvertimeHours.Add(entry.HoursWorked.Mul(decimal.NewFromInt(2)))
	default:
		s.RegularHours = s.RegularHours.Add(entry.HoursWorked)
	}
}

func (s *HoursSummary) Merge(other HoursSummary) {
	s.TotalHours = s.TotalHours.Add(other.TotalHours)
	s.RegularHours = s.RegularHours.Add(other.RegularHours)
	s.OvertimeHours = s.OvertimeHours.Add(other.OvertimeHours)
}

// SummarizeHours folds a set of entries into one summary. Which statuses
// belong in the set is the caller's decision (approved only for payroll,
// everything for operational views).
func SummarizeHours(entries []*TimeEntry) HoursSummary {
	var summary HoursSummary
	for _, entry := range entries {
		summary.Add(entry)
	}
	return summary
}

// EmployeeHoursGroup is one employee's entries plus their subtotal.
type EmployeeHoursGroup struct {
	EmployeeId     int          `json:"employee_id"`
	EmployeeName   string       `json:"employee_name"`
	Classification string       `json:"classification"`
	Entries        []*TimeEntry `json:"entries"`
	Subtotal       HoursSummary `json:"subtotal"`
}

// GroupTimeEntriesByEmployee groups entries by employee in insertion order,
// subtotals each group, then sorts groups by classification rank. The sort
// is stable: equal-rank groups keep their insertion order. An empty group
// sorts after any non-empty group.
func GroupTimeEntriesByEmployee(entries []*TimeEntry, employees map[int]*Employee, ranks ClassificationRanks) []*EmployeeHoursGroup {

	groupsByEmployee := make(map[int]*EmployeeHoursGroup)
	var groups []*EmployeeHoursGroup

	for _, entry := range entries {
		group, ok := groupsByEmployee[entry.EmployeeId]
		if !ok {
			group = &EmployeeHoursGroup{EmployeeId: entry.EmployeeId}
			if employee := employees[entry.EmployeeId]; employee != nil {
				group.EmployeeName = employee.Name
				group.Classification = employee.Classification
			}
			groupsByEmployee[entry.EmployeeId] = group
			groups = append(groups, group)
		}
		group.Entries = append(group.Entries, entry)
		group.Subtotal.Add(entry)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if len(a.Entries) == 0 || len(b.Entries) == 0 {
			return len(a.Entries) > 0 && len(b.Entries) == 0
		}
		return ranks.Rank(a.Classification) < ranks.Rank(b.Classification)
	})

	return groups
}

// set cardinality over the entry collection, not the hour sums
func DistinctEmployeeCount(entries []*TimeEntry) int {
	seen := make(map[int]bool)
	for _, entry := range entries {
		seen[entry.EmployeeId] = true
	}
	return len(seen)
}

func DistinctProjectCount(entries []*TimeEntry) int {
	seen := make(map[int]bool)
	for _, entry := range entries {
		seen[entry.ProjectId] = true
	}
	return len(seen)
}
