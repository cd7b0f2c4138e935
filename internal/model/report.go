package model

import "time"

// RunStatus classifies how a refresh run ended.
type RunStatus string

const (
	RunOK    RunStatus = "OK"
	RunEmpty RunStatus = "EMPTY"
)

// RunReport summarizes a single refresh run for recording and notification.
type RunReport struct {
	ID            string
	Symbol        string
	Provider      string
	StartedAt     time.Time
	FinishedAt    time.Time
	BarsFetched   int
	BarsInSession int
	DaysKept      int
	DaysDropped   int
	FilesWritten  int
	FirstDate     string
	LastDate      string
	Status        RunStatus
}
