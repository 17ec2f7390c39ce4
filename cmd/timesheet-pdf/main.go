package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/pdf"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/google/uuid"
)

func main() {
	businessID := flag.String("business-id", "", "Required: business id (uuid)")
	timesheetID := flag.Int("timesheet-id", 0, "Required: timesheet id")
	outFile := flag.String("out", "", "Output file (default timesheet-<id>.pdf)")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" {
		fmt.Fprintln(os.Stderr, "--business-id is required")
		os.Exit(1)
	}
	if *timesheetID <= 0 {
		fmt.Fprintln(os.Stderr, "--timesheet-id is required")
		os.Exit(1)
	}
	filename := *outFile
	if filename == "" {
		filename = fmt.Sprintf("timesheet-%d.pdf", *timesheetID)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetBusinessIdInContext(ctx, strings.TrimSpace(*businessID))
	ctx = utils.SetUserNameInContext(ctx, "TimesheetPdf")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	data, err := pdf.RenderTimesheetPDF(ctx, *timesheetID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render timesheet %d: %v\n", *timesheetID, err)
		os.Exit(1)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", filename, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", filename, len(data))
}
