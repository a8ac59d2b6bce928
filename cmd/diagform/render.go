package main

import (
	"diagform/internal/diagnostic"
	"diagform/internal/model"
	"diagform/internal/report"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderOutDir string
	renderRadar  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <submission.json>",
	Short: "Render the reports of a stored submission without sending anything",
	Long: `Reads a diagnostic submission (or a radar submission with --radar) and writes
the email bodies and the spreadsheet into the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", ".", "Directory to write the rendered files to")
	renderCmd.Flags().BoolVar(&renderRadar, "radar", false, "Treat the input as a maturity radar submission")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}
	if err := os.MkdirAll(renderOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var files map[string][]byte
	if renderRadar {
		files, err = renderRadarFiles(data)
	} else {
		files, err = renderDiagnosticFiles(data, cfg.FieldLabels(), cfg.ReportOptions())
	}
	if err != nil {
		return err
	}

	for name, content := range files {
		path := filepath.Join(renderOutDir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("rendered", zap.String("file", path))
	}
	return nil
}

func renderDiagnosticFiles(data []byte, labels diagnostic.FieldLabels, opts report.Options) (map[string][]byte, error) {
	var sub model.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	a := diagnostic.Analyze(&sub, labels)

	admin, err := report.RenderEmail(a, report.FlavorAdmin, opts)
	if err != nil {
		return nil, err
	}
	respondent, err := report.RenderEmail(a, report.FlavorRespondent, opts)
	if err != nil {
		return nil, err
	}
	workbook, err := report.BuildWorkbook(a)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		"admin.html":      []byte(admin),
		"respondent.html": []byte(respondent),
		"responses.xlsx":  workbook,
	}, nil
}

func renderRadarFiles(data []byte) (map[string][]byte, error) {
	var r model.RadarSubmission
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse radar submission: %w", err)
	}
	html, err := report.RenderRadarEmail(&r)
	if err != nil {
		return nil, err
	}
	workbook, err := report.BuildRadarWorkbook(&r)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		"radar.html": []byte(html),
		"radar.xlsx": workbook,
	}, nil
}
