package scanner

// Language identifies the source language of a finding.
type Language string

const (
	Go     Language = "go"
	Python Language = "python"
)

// Finding is one diagnostic reported by a rule.
type Finding struct {
	Rule     string   `json:"rule"`
	Language Language `json:"language"`
	// Package is the Go import path or the dotted Python module path.
	Package string `json:"package"`
	File    string `json:"file"` // relative to the scanned directory
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Result holds the complete scan output.
type Result struct {
	ModulePath  string    `json:"module,omitempty"` // module path from go.mod
	Packages    int       `json:"packages"`
	PythonFiles int       `json:"python_files"`
	Findings    []Finding `json:"findings"`
}

// Options controls scan behavior.
type Options struct {
	Filter string   // package path prefix filter
	Rules  []string // rule names; empty selects every rule
	Python bool     // also scan *.py files
	// Concurrency bounds the packages and files processed at once. Zero
	// means GOMAXPROCS.
	Concurrency int
}
