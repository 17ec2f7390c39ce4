package models

import "errors"

type WorkType string

const (
	WorkTypeRegular    WorkType = "Regular"
	WorkTypeOvertime   WorkType = "Overtime"
	WorkTypeDoubleTime WorkType = "DoubleTime"
)

func ParseWorkType(s string) (WorkType, error) {
	switch s {
	case "Regular":
		return WorkTypeRegular, nil
	case "Overtime":
		return WorkTypeOvertime, nil
	case "DoubleTime":
		return WorkTypeDoubleTime, nil
	default:
		return "", errors.New("invalid work type")
	}
}

func (t WorkType) IsValid() bool {
	switch t {
	case WorkTypeRegular, WorkTypeOvertime, WorkTypeDoubleTime:
		return true
	}
	return false
}

type TimeEntryStatus string

const (
	TimeEntryStatusPending  TimeEntryStatus = "Pending"
	TimeEntryStatusApproved TimeEntryStatus = "Approved"
	TimeEntryStatusRejected TimeEntryStatus = "Rejected"
)

// Approved and Rejected are terminal.
var timeEntryTransitions = map[TimeEntryStatus][]TimeEntryStatus{
	TimeEntryStatusPending: {TimeEntryStatusApproved, TimeEntryStatusRejected},
}

func (s TimeEntryStatus) CanTransitionTo(next TimeEntryStatus) bool {
	for _, allowed := range timeEntryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TimeEntryStatus) IsTerminal() bool {
	return len(timeEntryTransitions[s]) == 0
}

type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "Draft"
	TimesheetStatusSubmitted TimesheetStatus = "Submitted"
	TimesheetStatusApproved  TimesheetStatus = "Approved"
)

var timesheetTransitions = map[TimesheetStatus][]TimesheetStatus{
	TimesheetStatusDraft:     {TimesheetStatusSubmitted},
	TimesheetStatusSubmitted: {TimesheetStatusApproved},
}

func (s TimesheetStatus) CanTransitionTo(next TimesheetStatus) bool {
	for _, allowed := range timesheetTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
