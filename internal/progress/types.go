// Package progress displays pipeline stage progress on the terminal: a
// spinner while a stage runs and a one-line verdict when it ends.
package progress

import (
	"fmt"

	apperrors "github.com/eventforge/asyncgen/internal/errors"
)

// StageStatus is the state of a pipeline stage.
type StageStatus int

const (
	StageInProgress StageStatus = iota + 1
	StageCompleted
	StageFailed
)

var stageStatusNames = map[StageStatus]string{
	StageInProgress: "in_progress",
	StageCompleted:  "completed",
	StageFailed:     "failed",
}

func (s StageStatus) String() string {
	if name, ok := stageStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// StageInfo describes one pipeline stage for display. Number counts from 1.
type StageInfo struct {
	Name        string
	Number      int
	TotalStages int
	Status      StageStatus
	// Detail summarizes the stage output on completion, e.g. "12 schemas".
	Detail string
}

// Validate rejects stages the display cannot place in the run.
func (s StageInfo) Validate() error {
	if s.Name == "" {
		return apperrors.NewArgumentError("stage name cannot be empty")
	}
	if s.Number < 1 || s.Number > s.TotalStages {
		return apperrors.NewArgumentError(fmt.Sprintf("stage %s: number %d is outside 1..%d", s.Name, s.Number, s.TotalStages))
	}
	return nil
}
