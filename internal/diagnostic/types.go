package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"mapvet/internal/common"
)

// Diagnostics holds all diagnostic information from a validation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a stable numeric identifier for this type of diagnostic.
	Code Code
	// Message is the human-readable description.
	Message string
	// Set names the conceptual entity or association set this relates to (if any).
	Set string
	// Member names the property, end, column or parameter this relates to (if any).
	Member string
	// Location points back into the mapping document.
	Location Location
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Location is a position in a source document. It is carried, never interpreted.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether no position was recorded.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Column == 0 && l.File == ""
}

// String formats the location as file:line:column, omitting unknown parts.
func (l Location) String() string {
	if l.IsZero() {
		return ""
	}

	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code Code, message string, at Location, set, member string) {
	d.Add(Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Set:      set,
		Member:   member,
		Location: at,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code Code, message string, at Location, set, member string) {
	d.Add(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Set:      set,
		Member:   member,
		Location: at,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code Code, message string, at Location, set, member string) {
	d.Add(Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Set:      set,
		Member:   member,
		Location: at,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// WithCode returns every diagnostic of any severity carrying the given code.
func (d *Diagnostics) WithCode(code Code) []Diagnostic {
	var out []Diagnostic

	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Sort orders each severity list by location, then code, then message.
func (d *Diagnostics) Sort() {
	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		slices.SortStableFunc(list, compareDiagnostics)
	}
}

func compareDiagnostics(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Location.File, b.Location.File),
		cmp.Compare(a.Location.Line, b.Location.Line),
		cmp.Compare(a.Location.Column, b.Location.Column),
		cmp.Compare(a.Code, b.Code),
		cmp.Compare(a.Message, b.Message),
	)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if loc := d.Location.String(); loc != "" {
		prefix = append(prefix, loc)
	}

	if d.Set != "" {
		prefix = append(prefix, "["+d.Set+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := fmt.Sprintf("[%d %s] %s", int(d.Code), d.Code, d.Message)

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
