package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/valkeeper/internal/core/config"
	"github.com/solatis/valkeeper/internal/core/db"
	"github.com/solatis/valkeeper/internal/types"
)

// ErrViolations is returned when a checked document fails validation.
// main exits with status 2 for it.
var ErrViolations = errors.New("document has violations")

// inlineSchema names the schema built from --rule flags.
const inlineSchema = "inline"

var (
	checkRules   []string
	checkSchema  string
	checkOutput  string
	checkLenient bool
	checkSave    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a JSON document",
	Long: `Validate a JSON document read from file (or stdin) against a configured
schema (--schema) or rule expressions given inline (--rule, repeatable):

  valkeeper check --rule 'age numi! ge 18' --rule 'email email!' user.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringArrayVarP(&checkRules, "rule", "r", nil, "rule expression (repeatable)")
	checkCmd.Flags().StringVarP(&checkSchema, "schema", "s", "", "schema name from config")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", outputText, "output format (text, json, yaml)")
	checkCmd.Flags().BoolVar(&checkLenient, "lenient", false, "accept numbers of another numeric kind when exact")
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "persist the report to the report store")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := validateOutput(checkOutput); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	report, err := checkDocument(cfg, checkSchema, checkRules, checkLenient, input)
	if err != nil {
		return err
	}

	if checkSave {
		url, err := storeURL(cfg)
		if err != nil {
			return err
		}
		store, err := db.OpenReportStore(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to open report store: %w", err)
		}
		defer store.Close()
		if err := store.Save(ctx, report); err != nil {
			return err
		}
	}

	if err := renderReport(cmd.OutOrStdout(), checkOutput, report, checkSave); err != nil {
		return err
	}
	if !report.Valid {
		return ErrViolations
	}
	return nil
}

// checkDocument validates one JSON document. Inline rules take precedence over
// configured schemas; they are registered under schema when set, otherwise
// under "inline".
func checkDocument(cfg *config.ServiceConfig, schema string, exprs []string, lenient bool, input []byte) (db.StoredReport, error) {
	if lenient {
		cfg.LenientNumbers = true
	}

	switch {
	case len(exprs) > 0:
		if schema == "" {
			schema = inlineSchema
		}
		cfg.Schemas = map[string][]string{schema: exprs}
	case schema == "":
		return db.StoredReport{}, fmt.Errorf("--rule or --schema required")
	}

	engine, err := cfg.BuildEngine()
	if err != nil {
		return db.StoredReport{}, err
	}

	doc, err := types.FromJSON(input)
	if err != nil {
		return db.StoredReport{}, fmt.Errorf("failed to parse document: %w", err)
	}

	report, err := engine.Validate(schema, doc)
	if errors.Is(err, types.ErrSchemaNotFound) {
		return db.StoredReport{}, fmt.Errorf("%w (available: %s)", err, schemaList(engine.Names()))
	}
	if err != nil {
		return db.StoredReport{}, err
	}
	return db.NewStoredReport(schema, report), nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}
