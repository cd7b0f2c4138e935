package recorder

import "ChartFeed/internal/model"

// Recorder persists refresh run history for analysis.
type Recorder interface {
	RecordRun(report *model.RunReport) error
	Close() error
}
