package config

import (
	"os"
	"strings"
)

// AutoTimeEntryOnSignOut creates a Pending time entry automatically when a
// daily sign-in is signed out against a project.
//
// Set via env:
// - AUTO_TIME_ENTRY_ON_SIGN_OUT=true
func AutoTimeEntryOnSignOut() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("AUTO_TIME_ENTRY_ON_SIGN_OUT")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// StrictTimesheetImmutability refuses edits to time entries attached to a
// Submitted timesheet even while the entry itself is still Pending.
//
// Set via env:
// - STRICT_TIMESHEET_IMMUTABLE=true
func StrictTimesheetImmutability() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_TIMESHEET_IMMUTABLE")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
