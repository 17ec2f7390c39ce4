package pdf

import (
	"bitbucket.org/mmdatafocus/sitework_backend/models"
)

type rowKind int

const (
	rowGroupHeader rowKind = iota
	rowEntry
	rowSubtotal
	rowGrandTotal
)

type layoutRow struct {
	Kind       rowKind
	GroupIndex int
	Continued  bool
	Entry      *models.TimeEntry
	Summary    models.HoursSummary
}

type page struct {
	Rows []layoutRow
}

const defaultRowsPerPage = 32

// The first page carries the document header (title, date, status, notes),
// roughly four row heights tall. Its body budget shrinks by that much so a
// full page never runs into the footer band.
const firstPageHeaderRows = 4

// layoutTimesheet splits the grouped entries into pages of at most
// rowsPerPage body rows (fewer on the first page, which also holds the
// document header). A group that does not fit is broken mid-group and
// its header row is repeated on the next page marked as continued. The page
// count is fixed here so footers can be stamped in a single render pass.
func layoutTimesheet(groups []*models.EmployeeHoursGroup, grandTotal models.HoursSummary, rowsPerPage int) []page {
	if rowsPerPage < 3+firstPageHeaderRows {
		rowsPerPage = defaultRowsPerPage
	}

	pages := []page{{}}
	current := &pages[len(pages)-1]

	budget := func() int {
		if len(pages) == 1 {
			return rowsPerPage - firstPageHeaderRows
		}
		return rowsPerPage
	}
	newPage := func() {
		pages = append(pages, page{})
		current = &pages[len(pages)-1]
	}
	emit := func(row layoutRow) {
		if len(current.Rows) >= budget() {
			newPage()
			if row.Kind == rowEntry || row.Kind == rowSubtotal {
				current.Rows = append(current.Rows, layoutRow{
					Kind:       rowGroupHeader,
					GroupIndex: row.GroupIndex,
					Continued:  true,
				})
			}
		}
		current.Rows = append(current.Rows, row)
	}

	for gi, group := range groups {
		// avoid a group header stranded at the bottom of a page
		if budget()-len(current.Rows) < 2 {
			newPage()
		}
		emit(layoutRow{Kind: rowGroupHeader, GroupIndex: gi})
		for _, entry := range group.Entries {
			emit(layoutRow{Kind: rowEntry, GroupIndex: gi, Entry: entry})
		}
		emit(layoutRow{Kind: rowSubtotal, GroupIndex: gi, Summary: group.Subtotal})
	}
	emit(layoutRow{Kind: rowGrandTotal, Summary: grandTotal})

	return pages
}
