package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/solatis/valkeeper/internal/core/config"
	"github.com/solatis/valkeeper/internal/core/db"
	"github.com/solatis/valkeeper/internal/types"
)

var userRules = []string{"age numi! ge 18", "email email!"}

func TestCheckDocument(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantKinds []string
	}{
		{name: "valid", input: `{"age": 30, "email": "a@b.co"}`, wantValid: true},
		{name: "too young", input: `{"age": 17, "email": "a@b.co"}`, wantKinds: []string{"ge"}},
		{name: "empty", input: `{}`, wantKinds: []string{"required", "required"}},
		{name: "age as string", input: `{"age": "30", "email": "a@b.co"}`, wantKinds: []string{"type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := checkDocument(config.DefaultServiceConfig(), "", userRules, false, []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, inlineSchema, report.Schema)
			assert.Equal(t, tt.wantValid, report.Valid)

			var kinds []string
			for _, v := range report.Violations {
				kinds = append(kinds, v.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestCheckDocument_ConfiguredSchema(t *testing.T) {
	cfg := config.DefaultServiceConfig()
	cfg.Schemas = map[string][]string{"reading": {"value numu le 100"}}

	report, err := checkDocument(cfg, "reading", nil, false, []byte(`{"value": 120}`))
	require.NoError(t, err)
	assert.False(t, report.Valid, "I64 input against numu is a type violation without --lenient")
	assert.Equal(t, "type", report.Violations[0].Kind)

	report, err = checkDocument(cfg, "reading", nil, true, []byte(`{"value": 120}`))
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "le", report.Violations[0].Kind)
}

func TestCheckDocument_Errors(t *testing.T) {
	cfg := config.DefaultServiceConfig()
	cfg.Schemas = map[string][]string{"reading": {"value numu le 100"}}

	_, err := checkDocument(cfg, "", nil, false, []byte(`{}`))
	assert.ErrorContains(t, err, "--rule or --schema")

	_, err = checkDocument(cfg, "missing", nil, false, []byte(`{}`))
	assert.ErrorIs(t, err, types.ErrSchemaNotFound)
	assert.ErrorContains(t, err, "reading")

	_, err = checkDocument(config.DefaultServiceConfig(), "", []string{"age numi! bogus 1"}, false, []byte(`{}`))
	assert.ErrorIs(t, err, types.ErrInvalidRule)

	_, err = checkDocument(config.DefaultServiceConfig(), "", userRules, false, []byte(`{not json`))
	assert.ErrorContains(t, err, "failed to parse document")
}

func sampleReport(t *testing.T) db.StoredReport {
	t.Helper()
	report, err := checkDocument(config.DefaultServiceConfig(), "user", userRules, false, []byte(`{"age": 17}`))
	require.NoError(t, err)
	return report
}

func TestRenderReport_Text(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, outputText, report, false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "user: 2 violations", lines[0])
	assert.Contains(t, lines[1], "age")
	assert.Contains(t, lines[1], "must be greater than or equal to 18")
	assert.Contains(t, lines[2], "email")
	assert.Contains(t, lines[2], "required")

	buf.Reset()
	require.NoError(t, renderReport(&buf, outputText, report, true))
	assert.Contains(t, buf.String(), string(report.ID))
}

func TestRenderReport_Structured(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, outputJSON, report, false))
	var fromJSON db.StoredReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, report.ID, fromJSON.ID)
	assert.Equal(t, report.Violations, fromJSON.Violations)

	buf.Reset()
	require.NoError(t, renderReport(&buf, outputYAML, report, false))
	var fromYAML db.StoredReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, report.Schema, fromYAML.Schema)
	assert.Equal(t, report.Violations, fromYAML.Violations)
}

func TestRenderReportList(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	reports := []db.StoredReport{
		{ID: "r1", Schema: "user", Valid: true, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "r2", Schema: "user", Violations: []db.StoredViolation{{Kind: "ge"}}, CreatedAt: now.Add(-3 * 24 * time.Hour)},
	}

	var buf bytes.Buffer
	require.NoError(t, renderReportList(&buf, outputText, reports, now))
	out := buf.String()
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, "1 violation ")

	buf.Reset()
	require.NoError(t, renderReportList(&buf, outputJSON, nil, now))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, renderReportList(&buf, outputText, nil, now))
	assert.Equal(t, "no reports\n", buf.String())
}

func TestValidateOutput(t *testing.T) {
	for _, f := range []string{outputText, outputJSON, outputYAML} {
		assert.NoError(t, validateOutput(f))
	}
	assert.Error(t, validateOutput("xml"))
}

func TestStoreURL_DefaultsToDataDir(t *testing.T) {
	cfg := config.DefaultServiceConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")

	url, err := storeURL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://"+filepath.Join(cfg.DataDir, "reports.db"), url)
	assert.DirExists(t, cfg.DataDir)

	store, err := db.OpenReportStore(context.Background(), url)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	cfg.DBURL = "postgres://localhost/vk"
	url, err = storeURL(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.DBURL, url)
}
