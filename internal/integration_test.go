package internal_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/apishape/internal/scanner"
	"github.com/olehluchkiv/apishape/internal/workspace"
)

func testdataDir(name string) string {
	// Find the project root by looking for go.mod
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// We're in internal/, go up one level
	root := filepath.Dir(wd)
	return filepath.Join(root, "testdata", "scan", name)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// hit is the part of a finding the end-to-end cases pin down.
type hit struct {
	rule string
	file string
	line int
}

func hits(r *scanner.Result) []hit {
	out := make([]hit, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, hit{rule: f.Rule, file: f.File, line: f.Line})
	}
	return out
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()

	tests := []struct {
		name     string
		dir      string
		opts     scanner.Options
		want     []hit
		validate func(t *testing.T, r *scanner.Result)
	}{
		{
			name: "01_crypto",
			dir:  testdataDir("01_crypto"),
			want: []hit{
				{"weakcrypto", "hashing/hashing.go", 11},
				{"insecuretls", "tlsconf/tlsconf.go", 8},
			},
			validate: func(t *testing.T, r *scanner.Result) {
				assert.Equal(t, "example.com/crypto", r.ModulePath)
				assert.Equal(t, 2, r.Packages)
				assert.Equal(t, 0, r.PythonFiles)
				f := r.Findings[0]
				assert.Equal(t, scanner.Go, f.Language)
				assert.Equal(t, "example.com/crypto/hashing", f.Package)
				assert.Equal(t, 9, f.Column)
				assert.Equal(t, "md5.Sum uses a broken cryptographic primitive", f.Message)
			},
		},
		{
			name: "02_exec_sql",
			dir:  testdataDir("02_exec_sql"),
			want: []hit{
				{"shellexec", "runner/runner.go", 9},
				{"sqlstring", "store/store.go", 13},
				{"sqlstring", "store/store.go", 19},
			},
		},
		{
			name: "02_exec_sql_rule_selection",
			dir:  testdataDir("02_exec_sql"),
			opts: scanner.Options{Rules: []string{"sqlstring"}},
			want: []hit{
				{"sqlstring", "store/store.go", 13},
				{"sqlstring", "store/store.go", 19},
			},
		},
		{
			name: "03_http",
			dir:  testdataDir("03_http"),
			want: []hit{
				{"headerkey", "api/api.go", 9},
				{"uncheckedwrite", "api/api.go", 14},
				{"uncheckedwrite", "internal/health/health.go", 10},
			},
			validate: func(t *testing.T, r *scanner.Result) {
				assert.Contains(t, r.Findings[1].Message, "ResponseWriter.Write")
				assert.Contains(t, r.Findings[2].Message, "File.Write")
			},
		},
		{
			name: "03_http_filtered",
			dir:  testdataDir("03_http"),
			opts: scanner.Options{Filter: "example.com/web/internal"},
			want: []hit{
				{"uncheckedwrite", "internal/health/health.go", 10},
			},
		},
		{
			name: "04_python",
			dir:  testdataDir("04_python"),
			opts: scanner.Options{Python: true},
			want: []hit{
				{"yamlload", "app/config.py", 6},
				{"subprocessshell", "app/deploy.py", 5},
			},
			validate: func(t *testing.T, r *scanner.Result) {
				assert.Empty(t, r.ModulePath)
				assert.Equal(t, 0, r.Packages)
				// vendor/ and .venv/ are skipped
				assert.Equal(t, 2, r.PythonFiles)
				f := r.Findings[1]
				assert.Equal(t, scanner.Python, f.Language)
				assert.Equal(t, "app.deploy", f.Package)
				assert.Equal(t, 5, f.Column)
			},
		},
		{
			name: "04_python_disabled",
			dir:  testdataDir("04_python"),
			want: []hit{},
		},
		{
			name: "05_mixed",
			dir:  testdataDir("05_mixed"),
			opts: scanner.Options{Python: true, Concurrency: 1},
			want: []hit{
				{"yamlload", "scripts/build.py", 4},
				{"subprocessshell", "scripts/build.py", 5},
			},
			validate: func(t *testing.T, r *scanner.Result) {
				assert.Equal(t, "example.com/mixed", r.ModulePath)
				assert.Equal(t, 1, r.Packages)
				assert.Equal(t, 1, r.PythonFiles)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scanner.Scan(ctx, tt.dir, tt.opts, logger)
			require.NoError(t, err)
			result = scanner.Filter(result, tt.opts)

			assert.Equal(t, tt.want, hits(result))
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestScan_UnknownRule(t *testing.T) {
	_, err := scanner.Scan(context.Background(), testdataDir("01_crypto"),
		scanner.Options{Rules: []string{"nosuchrule"}}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule")
}

func TestScan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scanner.Scan(ctx, testdataDir("04_python"), scanner.Options{Python: true}, testLogger())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkspaceThenScan(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()

	ws, cleanup, err := workspace.Resolve(ctx, filepath.Join(testdataDir("01_crypto"), "hashing"), logger)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, testdataDir("01_crypto"), ws.Dir)
	assert.Equal(t, "example.com/crypto", ws.ModulePath)

	result, err := scanner.Scan(ctx, ws.Dir, scanner.Options{Rules: []string{"weakcrypto"}}, logger)
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "hashing/hashing.go", result.Findings[0].File)
}
