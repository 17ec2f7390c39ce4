package pdf

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"github.com/shopspring/decimal"
)

func TestEntryRowCells(t *testing.T) {
	projects := map[int]*models.Project{
		10: {ID: 10, ProjectNumber: "P-100", Name: "Riverside Plant"},
	}
	entry := &models.TimeEntry{
		ProjectId:     10,
		EntryDate:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		HoursWorked:   decimal.NewFromFloat(7.5),
		WorkType:      models.WorkTypeOvertime,
		TaskPerformed: "Conduit rough-in",
		Description:   "East wing, level 2",
		CurrentStatus: models.TimeEntryStatusApproved,
	}

	cells := entryRowCells(entry, projects)

	want := []string{"2026-03-09", "P-100 Riverside Plant", "Conduit rough-in", "Overtime", "7.50", "Approved"}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("cell %d is %q, want %q", i, cells[i], want[i])
		}
	}
}

func TestEntryRowCells_TaskFallsBackToDescription(t *testing.T) {
	entry := &models.TimeEntry{
		ProjectId:   99,
		EntryDate:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		HoursWorked: decimal.NewFromInt(8),
		WorkType:    models.WorkTypeRegular,
		Description: "Trenching for new service",
	}

	cells := entryRowCells(entry, map[int]*models.Project{})

	if cells[2] != "Trenching for new service" {
		t.Fatalf("task cell is %q, want the description fallback", cells[2])
	}
	if cells[1] != "#99" {
		t.Fatalf("project cell is %q, want the id placeholder", cells[1])
	}
}
