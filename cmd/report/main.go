package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"civic-request-report/internal/model"
	"civic-request-report/internal/report"
	"civic-request-report/internal/store"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func main() {
	specPath := flag.String("spec", "", "path to a report spec file (JSON or YAML)")
	dbPath := flag.String("db", "report.db", "path to the run store")
	flag.Parse()

	if *specPath == "" {
		fmt.Fprintln(os.Stderr, "usage: report -spec report.yaml [-db report.db]")
		os.Exit(2)
	}

	spec, err := loadSpec(*specPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load spec: %v\n", err)
		os.Exit(1)
	}
	if err := report.ValidateSpec(spec); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := store.InitDB(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open run store: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save run: %v\n", err)
		os.Exit(1)
	}

	table, err := report.Run(context.Background(), runID, spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report run failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if err := report.RenderText(os.Stdout, table); err != nil {
		fmt.Fprintf(os.Stderr, "failed to render table: %v\n", err)
		os.Exit(1)
	}
}

// loadSpec reads a report spec from a JSON or YAML file, by extension.
func loadSpec(path string) (model.ReportSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ReportSpec{}, err
	}

	var spec model.ReportSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	default:
		err = json.Unmarshal(data, &spec)
	}
	return spec, err
}
