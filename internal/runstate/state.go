package runstate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// State captures the outcome of the most recent refresh run.
type State struct {
	LastRunAt    time.Time `json:"last_run_at"`
	LastStatus   string    `json:"last_status"`
	LastError    string    `json:"last_error,omitempty"`
	DaysKept     int       `json:"days_kept"`
	FilesWritten int       `json:"files_written"`
	FirstDate    string    `json:"first_date,omitempty"`
	LastDate     string    `json:"last_date,omitempty"`
	RunCount     int       `json:"run_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Describe renders the state as a one-line summary for startup logs.
func (s State) Describe(now time.Time) string {
	if s.RunCount == 0 {
		return "no previous runs"
	}
	desc := fmt.Sprintf("last run %s ago: %s, %d day files",
		now.Sub(s.LastRunAt).Truncate(time.Minute), s.LastStatus, s.FilesWritten)
	if s.LastError != "" {
		desc += " (" + s.LastError + ")"
	}
	return desc
}

// Load reads the run state from a JSON file. Returns a zero state if the file doesn't exist.
func Load(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save writes the run state to a JSON file.
func Save(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
