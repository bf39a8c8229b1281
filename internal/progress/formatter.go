package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func counter(stage StageInfo) string {
	return fmt.Sprintf("[%d/%d]", stage.Number, stage.TotalStages)
}

// runningLine renders "[N/Total] Running name".
func runningLine(stage StageInfo) string {
	return counter(stage) + " Running " + stage.Name
}

// verdictLine renders "mark [N/Total] Name outcome".
func verdictLine(stage StageInfo, mark, outcome string) string {
	return fmt.Sprintf("%s %s %s %s", mark, counter(stage), capitalize(stage.Name), outcome)
}

// mark colors a verdict symbol green or red when the terminal allows it.
func (p *ProgressDisplay) mark(symbol string, ok bool) string {
	if !p.caps.SupportsColor {
		return symbol
	}
	if ok {
		return color.New(color.FgGreen).Sprint(symbol)
	}
	return color.New(color.FgRed).Sprint(symbol)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncate shortens s to width columns when width is known.
func truncate(s string, width int) string {
	if width <= 3 || len([]rune(s)) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}
