package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/models/reports"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/google/uuid"
)

func main() {
	businessID := flag.String("business-id", "", "Required: business id (uuid)")
	from := flag.String("from", "", "Required: start date (YYYY-MM-DD)")
	to := flag.String("to", "", "Required: end date (YYYY-MM-DD)")
	projectID := flag.Int("project-id", 0, "Optional: also export a project cost report for this project")
	outDir := flag.String("out", ".", "Directory to write xlsx files into")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" {
		fmt.Fprintln(os.Stderr, "--business-id is required")
		os.Exit(1)
	}
	fromDate, err := time.Parse("2006-01-02", *from)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--from must be YYYY-MM-DD")
		os.Exit(1)
	}
	toDate, err := time.Parse("2006-01-02", *to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--to must be YYYY-MM-DD")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetBusinessIdInContext(ctx, strings.TrimSpace(*businessID))
	ctx = utils.SetUserNameInContext(ctx, "PayrollExport")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	summary, err := reports.GetPayrollSummaryReport(ctx, fromDate, toDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "payroll summary failed: %v\n", err)
		os.Exit(1)
	}
	summaryFile := fmt.Sprintf("%s/payroll-summary-%s-%s.xlsx", *outDir, *from, *to)
	err = reports.ExportExcelFile(summaryFile,
		reports.ProjectRankingForExport(summary.TopProjects),
		"ProjectNumber", "ProjectName", "Hours")
	if err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", summaryFile, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (total hours %s, total cost %s, %d employees, %d projects)\n",
		summaryFile, summary.TotalLaborHours, summary.TotalLaborCost,
		summary.EmployeeCount, summary.ProjectCount)

	weekly, err := reports.GetWeeklyPayrollReport(ctx, fromDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "weekly report failed: %v\n", err)
		os.Exit(1)
	}
	weeklyFile := fmt.Sprintf("%s/weekly-payroll-%s.xlsx", *outDir, weekly.WeekStart.Format("2006-01-02"))
	err = reports.ExportExcelFile(weeklyFile,
		reports.WeeklyRowsForExport(weekly.Rows),
		"Employee", "Classification", "Total", "Regular", "Overtime")
	if err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", weeklyFile, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (grand total %s)\n", weeklyFile, weekly.GrandTotalHours)

	if *projectID > 0 {
		cost, err := reports.GetProjectCostReport(ctx, *projectID, fromDate, toDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "project cost report failed: %v\n", err)
			os.Exit(1)
		}
		costFile := fmt.Sprintf("%s/project-cost-%d-%s-%s.xlsx", *outDir, *projectID, *from, *to)
		err = reports.ExportExcelFile(costFile,
			reports.ProjectCostRowsForExport(cost.Rows),
			"Employee", "Classification", "Hours", "Rate", "Cost")
		if err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", costFile, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (total cost %s)\n", costFile, cost.TotalCost)
	}
}
