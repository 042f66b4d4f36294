package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"mapvet/internal/config"
	"mapvet/internal/diagnostic"
	"mapvet/internal/model"
)

// diagnosticReport is the YAML form of a validation result.
type diagnosticReport struct {
	Container  string            `yaml:"container"`
	Valid      bool              `yaml:"valid"`
	Violations []violationReport `yaml:"violations,omitempty"`
}

type violationReport struct {
	Severity    string   `yaml:"severity"`
	Code        int      `yaml:"code"`
	Name        string   `yaml:"name"`
	Message     string   `yaml:"message"`
	Set         string   `yaml:"set,omitempty"`
	Member      string   `yaml:"member,omitempty"`
	Location    string   `yaml:"location,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// groupsReport is the YAML form of a cell partitioning.
type groupsReport struct {
	Container   string        `yaml:"container"`
	ViewMode    string        `yaml:"view_mode"`
	Success     bool          `yaml:"success"`
	Groups      []groupReport `yaml:"groups,omitempty"`
	ForeignKeys []string      `yaml:"foreign_keys,omitempty"`
}

type groupReport struct {
	Tables []string `yaml:"tables"`
	Cells  []string `yaml:"cells"`
}

func writeDiagnostics(w io.Writer, format, container string, d *diagnostic.Diagnostics) error {
	if format == formatYAML {
		report := diagnosticReport{Container: container, Valid: d.IsValid()}

		for _, list := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
			for _, diag := range list {
				report.Violations = append(report.Violations, violationReport{
					Severity:    diag.Severity.String(),
					Code:        int(diag.Code),
					Name:        diag.Code.String(),
					Message:     diag.Message,
					Set:         diag.Set,
					Member:      diag.Member,
					Location:    diag.Location.String(),
					Suggestions: diag.Suggestions,
				})
			}
		}

		return encodeYAML(w, report)
	}

	var b strings.Builder

	for _, list := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			fmt.Fprintf(&b, "%s: %s\n", diag.Severity, diag)
		}
	}

	if d.IsValid() {
		fmt.Fprintf(&b, "%s: ok\n", container)
	} else {
		fmt.Fprintf(&b, "%s: %d error(s)\n", container, len(d.Errors))
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeGroups(w io.Writer, format, container string, gen config.Generation, out model.CellGroupOutput) error {
	report := groupsReport{Container: container, ViewMode: gen.ViewMode, Success: out.Success}

	for _, fk := range out.ForeignKeys {
		report.ForeignKeys = append(report.ForeignKeys,
			fmt.Sprintf("%s: %s -> %s", fk.Name, fk.ChildTable, fk.ParentTable))
	}

	for _, g := range out.Groups {
		group := groupReport{Tables: g.Tables}
		for _, c := range g.Cells {
			group.Cells = append(group.Cells, cellLabel(c))
		}

		report.Groups = append(report.Groups, group)
	}

	if format == formatYAML {
		return encodeYAML(w, report)
	}

	var b strings.Builder

	if !out.Success {
		fmt.Fprintf(&b, "%s: no cells; view generation falls back to %s views\n", container, config.ViewModeUnionAll)
		_, err := io.WriteString(w, b.String())

		return err
	}

	for i, g := range report.Groups {
		fmt.Fprintf(&b, "group %d: %s\n", i+1, strings.Join(g.Tables, ", "))

		for _, c := range g.Cells {
			fmt.Fprintf(&b, "  %s\n", c)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// cellLabel renders a cell as "Set(Types) -> table".
func cellLabel(c model.Cell) string {
	types := make([]string, len(c.Types))
	for i, t := range c.Types {
		types[i] = t.String()
	}

	return fmt.Sprintf("%s(%s) -> %s", c.Set, strings.Join(types, ", "), c.Table)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return enc.Close()
}
