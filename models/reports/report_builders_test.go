package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"github.com/shopspring/decimal"
)

func rate(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func testEmployees() map[int]*models.Employee {
	return map[int]*models.Employee{
		1: {ID: 1, Name: "Avery", Classification: "FOREMAN", HourlyRate: rate(42)},
		2: {ID: 2, Name: "Blake", Classification: "JOURNEYMAN", HourlyRate: rate(35)},
		3: {ID: 3, Name: "Casey", Classification: "APPRENTICE"}, // no rate on file
	}
}

func testProjects() map[int]*models.Project {
	return map[int]*models.Project{
		10: {ID: 10, ProjectNumber: "P-100", Name: "Riverside Plant"},
		11: {ID: 11, ProjectNumber: "P-110", Name: "Mill Retrofit"},
	}
}

func testEntry(employeeId, projectId int, date time.Time, hours float64, workType models.WorkType) *models.TimeEntry {
	return &models.TimeEntry{
		EmployeeId:    employeeId,
		ProjectId:     projectId,
		EntryDate:     date,
		HoursWorked:   decimal.NewFromFloat(hours),
		WorkType:      workType,
		CurrentStatus: models.TimeEntryStatusApproved,
	}
}

func TestBuildDailyPayrollReport_RowSumsEqualGrandTotal(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	entries := []*models.TimeEntry{
		testEntry(1, 10, day, 8, models.WorkTypeRegular),
		testEntry(1, 11, day, 2, models.WorkTypeOvertime),
		testEntry(2, 10, day, 8, models.WorkTypeRegular),
		testEntry(3, 10, day, 6, models.WorkTypeRegular),
	}

	report := BuildDailyPayrollReport(day, entries, testEmployees(), testProjects(), nil, models.DefaultClassificationRanks())

	var sum decimal.Decimal
	for _, row := range report.Rows {
		sum = sum.Add(row.TotalHours)
	}
	if !report.GrandTotalHours.Equal(sum) {
		t.Fatalf("grand total %s != row sum %s", report.GrandTotalHours, sum)
	}
	if got := report.GrandTotalHours.String(); got != "24" {
		t.Fatalf("grand total = %s, want 24", got)
	}

	// FOREMAN before JOURNEYMAN before APPRENTICE
	want := []string{"Avery", "Blake", "Casey"}
	for i, name := range want {
		if report.Rows[i].EmployeeName != name {
			t.Fatalf("row[%d] = %s, want %s", i, report.Rows[i].EmployeeName, name)
		}
	}
	if got := len(report.Rows[0].Projects); got != 2 {
		t.Fatalf("Avery worked 2 projects, breakdown has %d", got)
	}
}

func TestBuildDailyPayrollReport_AttachesFirstSignIn(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	early := day.Add(7 * time.Hour)
	late := day.Add(13 * time.Hour)
	out := day.Add(16 * time.Hour)
	signIns := []*models.DailySignIn{
		{EmployeeId: 1, SignInTime: late},
		{EmployeeId: 1, SignInTime: early, SignOutTime: &out},
	}
	entries := []*models.TimeEntry{testEntry(1, 10, day, 8, models.WorkTypeRegular)}

	report := BuildDailyPayrollReport(day, entries, testEmployees(), testProjects(), signIns, models.DefaultClassificationRanks())

	row := report.Rows[0]
	if row.SignInTime == nil || !row.SignInTime.Equal(early) {
		t.Fatalf("SignInTime = %v, want earliest %v", row.SignInTime, early)
	}
	if row.SignOutTime == nil || !row.SignOutTime.Equal(out) {
		t.Fatalf("SignOutTime = %v, want %v", row.SignOutTime, out)
	}
}

func TestBuildWeeklyPayrollReport_DailyBucketsCoverWholeWeek(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	entries := []*models.TimeEntry{
		testEntry(1, 10, monday, 8, models.WorkTypeRegular),
		testEntry(1, 10, monday.AddDate(0, 0, 2), 8, models.WorkTypeRegular),
		testEntry(1, 11, monday.AddDate(0, 0, 4), 4, models.WorkTypeOvertime),
	}

	report := BuildWeeklyPayrollReport(monday, entries, testEmployees(), testProjects(), models.DefaultClassificationRanks())

	if !report.WeekStart.Equal(monday) || !report.WeekEnd.Equal(monday.AddDate(0, 0, 6)) {
		t.Fatalf("week bounds %v..%v", report.WeekStart, report.WeekEnd)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if len(row.DailyHours) != 7 {
		t.Fatalf("got %d daily buckets, want 7", len(row.DailyHours))
	}

	var bucketSum decimal.Decimal
	for _, day := range row.DailyHours {
		bucketSum = bucketSum.Add(day.Hours)
	}
	if !bucketSum.Equal(row.TotalHours) {
		t.Fatalf("daily buckets sum %s != row total %s", bucketSum, row.TotalHours)
	}
	if !row.DailyHours[1].Hours.IsZero() || !row.DailyHours[6].Hours.IsZero() {
		t.Fatal("empty days must be present with zero hours")
	}
	if !report.GrandTotalHours.Equal(row.TotalHours) {
		t.Fatalf("grand total %s != row total %s", report.GrandTotalHours, row.TotalHours)
	}
}

func TestBuildProjectCostReport_TotalsEqualRowSums(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	project := testProjects()[10]
	entries := []*models.TimeEntry{
		testEntry(1, 10, day, 8, models.WorkTypeRegular),
		testEntry(2, 10, day, 10, models.WorkTypeRegular),
		testEntry(3, 10, day, 6, models.WorkTypeRegular),
	}

	report := BuildProjectCostReport(project, day, day, entries, testEmployees(), models.DefaultClassificationRanks())

	var hoursSum, costSum decimal.Decimal
	for _, row := range report.Rows {
		hoursSum = hoursSum.Add(row.Hours)
		costSum = costSum.Add(row.Cost)
	}
	if !report.TotalHours.Equal(hoursSum) {
		t.Fatalf("TotalHours %s != row sum %s", report.TotalHours, hoursSum)
	}
	if !report.TotalCost.Equal(costSum) {
		t.Fatalf("TotalCost %s != row sum %s", report.TotalCost, costSum)
	}
	// 8*42 + 10*35 + 0 for the unrated apprentice
	if got := report.TotalCost.String(); got != "686" {
		t.Fatalf("TotalCost = %s, want 686", got)
	}
}

func TestBuildProjectCostReport_MissingRateContributesHoursNotCost(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	project := testProjects()[10]
	entries := []*models.TimeEntry{testEntry(3, 10, day, 6, models.WorkTypeRegular)}

	report := BuildProjectCostReport(project, day, day, entries, testEmployees(), models.DefaultClassificationRanks())

	row := report.Rows[0]
	if row.Rate != nil {
		t.Fatalf("Rate = %s, want nil", row.Rate)
	}
	if !row.Cost.IsZero() {
		t.Fatalf("Cost = %s, want 0", row.Cost)
	}
	if got := report.TotalHours.String(); got != "6" {
		t.Fatalf("TotalHours = %s, want 6", got)
	}
}

func TestBuildPayrollSummaryReport_CountsAndTopProjects(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	projects := map[int]*models.Project{}
	var entries []*models.TimeEntry
	for i := 0; i < 7; i++ {
		projectId := 100 + i
		projects[projectId] = &models.Project{ID: projectId, ProjectNumber: "P", Name: "Project"}
		// later projects accrue more hours
		entries = append(entries, testEntry(1, projectId, day, float64(i+1), models.WorkTypeRegular))
	}
	entries = append(entries, testEntry(2, 100, day, 1, models.WorkTypeRegular))

	report := BuildPayrollSummaryReport(day, day, entries, testEmployees(), projects)

	if report.EmployeeCount != 2 {
		t.Fatalf("EmployeeCount = %d, want 2", report.EmployeeCount)
	}
	if report.ProjectCount != 7 {
		t.Fatalf("ProjectCount = %d, want 7", report.ProjectCount)
	}
	if len(report.TopProjects) != 5 {
		t.Fatalf("TopProjects has %d entries, want 5", len(report.TopProjects))
	}
	for i := 1; i < len(report.TopProjects); i++ {
		if report.TopProjects[i].Hours.GreaterThan(report.TopProjects[i-1].Hours) {
			t.Fatal("TopProjects must be sorted by hours descending")
		}
	}
	if report.TopProjects[0].ProjectId != 106 {
		t.Fatalf("busiest project = %d, want 106", report.TopProjects[0].ProjectId)
	}
}

func TestBuildPayrollSummaryReport_CostSkipsUnratedEmployees(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	entries := []*models.TimeEntry{
		testEntry(1, 10, day, 10, models.WorkTypeRegular),
		testEntry(3, 10, day, 10, models.WorkTypeRegular),
	}

	report := BuildPayrollSummaryReport(day, day, entries, testEmployees(), testProjects())

	if got := report.TotalLaborHours.String(); got != "20" {
		t.Fatalf("TotalLaborHours = %s, want 20", got)
	}
	if got := report.TotalLaborCost.String(); got != "420" {
		t.Fatalf("TotalLaborCost = %s, want 420", got)
	}
}
