package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Observer receives stage transitions from the generate pipeline.
type Observer interface {
	StartStage(StageInfo) error
	CompleteStage(StageInfo) error
	FailStage(StageInfo, error) error
}

// Nop is an Observer that displays nothing.
type Nop struct{}

func (Nop) StartStage(StageInfo) error       { return nil }
func (Nop) CompleteStage(StageInfo) error    { return nil }
func (Nop) FailStage(StageInfo, error) error { return nil }

// ProgressDisplay shows a spinner for the running stage on a terminal, or a
// plain "Running" line otherwise, and one verdict line per finished stage.
type ProgressDisplay struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spinner *spinner.Spinner
}

// NewProgressDisplay creates a display writing to w.
func NewProgressDisplay(w io.Writer, caps TerminalCapabilities) *ProgressDisplay {
	return &ProgressDisplay{w: w, caps: caps, symbols: SelectSymbols(caps)}
}

// StartStage implements Observer.
func (p *ProgressDisplay) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	msg := truncate(runningLine(stage), p.caps.Width-2)
	if !p.caps.IsTTY {
		_, err := fmt.Fprintln(p.w, msg)
		return err
	}

	p.spinner = spinner.New(
		spinner.CharSets[p.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(p.w),
	)
	p.spinner.Suffix = " " + msg
	p.spinner.Start()
	return nil
}

// CompleteStage implements Observer.
func (p *ProgressDisplay) CompleteStage(stage StageInfo) error {
	p.StopSpinner()
	line := verdictLine(stage, p.mark(p.symbols.Checkmark, true), "complete")
	if stage.Detail != "" {
		line += " (" + stage.Detail + ")"
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// FailStage implements Observer.
func (p *ProgressDisplay) FailStage(stage StageInfo, cause error) error {
	p.StopSpinner()
	line := verdictLine(stage, p.mark(p.symbols.Failure, false), "failed")
	_, err := fmt.Fprintf(p.w, "%s: %v\n", line, cause)
	return err
}

// StopSpinner stops the spinner without showing a verdict.
func (p *ProgressDisplay) StopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
