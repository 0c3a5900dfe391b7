package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/solatis/valkeeper/internal/core/db"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output %q: must be text, json or yaml", format)
	}
}

// writeStructured encodes v as JSON or YAML. ok is false for text output.
func writeStructured(w io.Writer, format string, v any) (ok bool, err error) {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// renderReport prints one report. withID adds the stored report ID to the
// text header.
//
//	user: 2 violations
//	  age  ge        must be greater than or equal to 18
//	  email required is required
func renderReport(w io.Writer, format string, r db.StoredReport, withID bool) error {
	if ok, err := writeStructured(w, format, r); ok {
		return err
	}

	header := r.Schema + ": "
	if r.Valid {
		header += "valid"
	} else {
		header += humanize.Comma(int64(len(r.Violations))) + " " + plural(len(r.Violations), "violation")
	}
	if withID {
		header += fmt.Sprintf(" (report %s)", r.ID)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, v := range r.Violations {
		field := v.Field
		if field == "" {
			field = "."
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", field, v.Kind, v.Message)
	}
	return tw.Flush()
}

// renderReportList prints stored reports newest first, with relative times in
// text mode.
func renderReportList(w io.Writer, format string, reports []db.StoredReport, now time.Time) error {
	if reports == nil {
		reports = []db.StoredReport{}
	}
	if ok, err := writeStructured(w, format, reports); ok {
		return err
	}
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "no reports")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCHEMA\tRESULT\tCREATED")
	for _, r := range reports {
		result := "valid"
		if !r.Valid {
			result = fmt.Sprintf("%d %s", len(r.Violations), plural(len(r.Violations), "violation"))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Schema, result, humanize.RelTime(r.CreatedAt, now, "ago", "from now"))
	}
	return tw.Flush()
}

// renderMigrations prints migration status as a table.
func renderMigrations(w io.Writer, statuses []db.MigrationStatus, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tAPPLIED\tDURATION")
	for _, s := range statuses {
		state, applied, took := "pending", "-", "-"
		if s.Applied {
			state = "applied"
			if s.AppliedAt != nil {
				applied = humanize.RelTime(*s.AppliedAt, now, "ago", "from now")
			}
			took = (time.Duration(s.ExecutionMs) * time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, state, applied, took)
	}
	return tw.Flush()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// schemaList renders names for error messages.
func schemaList(names []string) string {
	if len(names) == 0 {
		return "none configured"
	}
	return strings.Join(names, ", ")
}
