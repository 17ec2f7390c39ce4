package pdf

import (
	"testing"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"github.com/shopspring/decimal"
)

func buildGroups(employeeCount, entriesPerEmployee int) ([]*models.EmployeeHoursGroup, models.HoursSummary) {
	var groups []*models.EmployeeHoursGroup
	var grandTotal models.HoursSummary
	for e := 0; e < employeeCount; e++ {
		group := &models.EmployeeHoursGroup{EmployeeId: e + 1}
		for i := 0; i < entriesPerEmployee; i++ {
			entry := &models.TimeEntry{
				EmployeeId:  e + 1,
				ProjectId:   1,
				HoursWorked: decimal.NewFromInt(8),
				WorkType:    models.WorkTypeRegular,
			}
			group.Entries = append(group.Entries, entry)
			group.Subtotal.Add(entry)
		}
		grandTotal.Merge(group.Subtotal)
		groups = append(groups, group)
	}
	return groups, grandTotal
}

func countRows(pages []page, kind rowKind) int {
	n := 0
	for _, p := range pages {
		for _, row := range p.Rows {
			if row.Kind == kind {
				n++
			}
		}
	}
	return n
}

func TestLayoutTimesheet_SinglePage(t *testing.T) {
	groups, grandTotal := buildGroups(2, 3)

	pages := layoutTimesheet(groups, grandTotal, 32)

	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	// 2 headers + 6 entries + 2 subtotals + 1 grand total
	if got := len(pages[0].Rows); got != 11 {
		t.Fatalf("got %d rows, want 11", got)
	}
	last := pages[0].Rows[len(pages[0].Rows)-1]
	if last.Kind != rowGrandTotal {
		t.Fatal("last row must be the grand total")
	}
	if !last.Summary.TotalHours.Equal(grandTotal.TotalHours) {
		t.Fatalf("grand total row carries %s, want %s", last.Summary.TotalHours, grandTotal.TotalHours)
	}
}

func TestLayoutTimesheet_PaginatesMidGroup(t *testing.T) {
	// 4 employees x 8 entries does not fit 12-row pages without breaking a
	// group across a page boundary.
	groups, grandTotal := buildGroups(4, 8)

	pages := layoutTimesheet(groups, grandTotal, 12)

	if len(pages) < 2 {
		t.Fatalf("got %d pages, want multiple", len(pages))
	}
	for i, p := range pages {
		if len(p.Rows) == 0 {
			t.Fatalf("page %d is empty", i)
		}
		if len(p.Rows) > 12 {
			t.Fatalf("page %d has %d rows, limit is 12", i, len(p.Rows))
		}
	}

	if got := countRows(pages, rowEntry); got != 32 {
		t.Fatalf("got %d entry rows, want 32", got)
	}
	if got := countRows(pages, rowSubtotal); got != 4 {
		t.Fatalf("got %d subtotal rows, want 4", got)
	}
	if got := countRows(pages, rowGrandTotal); got != 1 {
		t.Fatalf("got %d grand total rows, want 1", got)
	}

	continued := 0
	for pi, p := range pages {
		for ri, row := range p.Rows {
			if row.Kind == rowGroupHeader && row.Continued {
				continued++
				if ri != 0 {
					t.Fatalf("continued header on page %d must open the page, found at row %d", pi, ri)
				}
			}
		}
	}
	if continued == 0 {
		t.Fatal("expected at least one mid-group page break with a continued header")
	}
}

func TestLayoutTimesheet_FirstPageLeavesRoomForDocumentHeader(t *testing.T) {
	// Enough rows to overfill any page. The first page also carries the
	// document header, so its body budget is smaller than later pages'.
	groups, grandTotal := buildGroups(6, 10)

	pages := layoutTimesheet(groups, grandTotal, 32)

	if len(pages) < 2 {
		t.Fatalf("got %d pages, want multiple", len(pages))
	}
	if got := len(pages[0].Rows); got > 32-firstPageHeaderRows {
		t.Fatalf("first page has %d body rows, limit is %d", got, 32-firstPageHeaderRows)
	}
	for i, p := range pages[1:] {
		if len(p.Rows) > 32 {
			t.Fatalf("page %d has %d rows, limit is 32", i+1, len(p.Rows))
		}
	}
	if got := countRows(pages, rowEntry); got != 60 {
		t.Fatalf("got %d entry rows, want 60", got)
	}
}

func TestLayoutTimesheet_NoStrandedGroupHeader(t *testing.T) {
	groups, grandTotal := buildGroups(5, 5)

	pages := layoutTimesheet(groups, grandTotal, 12)

	for pi, p := range pages {
		if len(p.Rows) == 0 {
			continue
		}
		last := p.Rows[len(p.Rows)-1]
		if last.Kind == rowGroupHeader && pi != len(pages)-1 {
			t.Fatalf("page %d ends with a group header and nothing under it", pi)
		}
	}
}

func TestLayoutTimesheet_EmptyTimesheetStillHasGrandTotal(t *testing.T) {
	pages := layoutTimesheet(nil, models.HoursSummary{}, 12)

	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if len(pages[0].Rows) != 1 || pages[0].Rows[0].Kind != rowGrandTotal {
		t.Fatalf("empty timesheet must render a single grand total row, got %+v", pages[0].Rows)
	}
}
