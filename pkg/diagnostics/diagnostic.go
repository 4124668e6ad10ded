package diagnostics

import (
	"fmt"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
)

const Source = "robotsls"

type Severity uint8

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error", "err":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "information", "info":
		return SeverityInformation, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

type Diagnostic struct {
	Span     syntax.Span
	Severity Severity
	Message  string
	// Code identifies the analyzer that produced the diagnostic.
	Code   string
	Source string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s [%s]", d.Span, d.Severity, d.Message, d.Code)
}
