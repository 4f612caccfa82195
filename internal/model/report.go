package model

// Source points at one data source for a report run.
type Source struct {
	Type string `json:"type" yaml:"type"` // csv, json, api
	URL  string `json:"url" yaml:"url"`
}

// Sources names the three inputs every report needs.
type Sources struct {
	Requests    Source `json:"requests" yaml:"requests"`
	Areas       Source `json:"areas" yaml:"areas"`
	Populations Source `json:"populations" yaml:"populations"`
}

// Export defines the file export target for the finished table. Result rows
// are always persisted to the run store; file export is opt-in.
type Export struct {
	File string `json:"file,omitempty" yaml:"file"` // e.g. output.csv, output.json
}

// ReportSpec is the entire configuration for one report run, posted to the
// API or loaded from a JSON/YAML file by the CLI.
type ReportSpec struct {
	Title        string       `json:"title" yaml:"title"`
	Sources      Sources      `json:"sources" yaml:"sources"`
	ExcludeTypes []string     `json:"excludeTypes,omitempty" yaml:"excludeTypes"`
	GroupBy      []string     `json:"groupBy" yaml:"groupBy"`
	Metrics      []MetricSpec `json:"metrics,omitempty" yaml:"metrics"`
	Rank         *RankSpec    `json:"rank,omitempty" yaml:"rank"`
	Export       *Export      `json:"export,omitempty" yaml:"export"`
	RunTimeout   string       `json:"runTimeout,omitempty" yaml:"runTimeout"` // e.g. "5m"
}
