package host

import (
	"fmt"
	"strings"
)

// ReportingLevel grades a progress message.
type ReportingLevel int

const (
	Normal ReportingLevel = iota
	Warning
	Abort
	Errors
)

var levelNames = [...]string{"NORMAL", "WARNING", "ABORT", "ERRORS"}

func (l ReportingLevel) String() string {
	if l >= Normal && l <= Errors {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseReportingLevel accepts NORMAL, WARNING, ABORT or ERRORS in any case.
func ParseReportingLevel(s string) (ReportingLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return ReportingLevel(i), nil
		}
	}
	return Warning, fmt.Errorf("%w: unknown reporting level %q", ErrInvalid, s)
}

// Progress receives progress reports from a running script.
type Progress interface {
	UpdateProgress(message string, percent int, level ReportingLevel)
}

// ProgressReport is one recorded progress update.
type ProgressReport struct {
	Message string
	Percent int
	Level   ReportingLevel
}

// ProgressRecorder is a Progress that keeps every report.
type ProgressRecorder struct {
	Reports []ProgressReport
}

func (r *ProgressRecorder) UpdateProgress(message string, percent int, level ReportingLevel) {
	r.Reports = append(r.Reports, ProgressReport{Message: message, Percent: percent, Level: level})
}

// Last returns the most recent report.
func (r *ProgressRecorder) Last() (ProgressReport, bool) {
	if len(r.Reports) == 0 {
		return ProgressReport{}, false
	}
	return r.Reports[len(r.Reports)-1], true
}
