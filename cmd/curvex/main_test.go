package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/curvex/config"
	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/refine"
)

const corridor = `
dims: [6, 3, 1]
mesh: [1, 1, 1, 1, 1, 1,
       2, 1, 1, 1, 1, 3,
       1, 1, 1, 1, 1, 1]
unary: [5, 5, 5, 5, 5, 5,
        1, 1, 1, 1, 1, 1,
        5, 5, 5, 5, 5, 5]
stencil: "8"
regularization:
  length: 1
  curvature: 1
refine:
  max_iterations: 20
`

// run executes the command line with fresh flag state and returns stdout.
func run(args ...string) (string, error) {
	verbose, metricsFile, outFile, withRefine, pathFile = false, "", "", false, ""
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := execute()

	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(args...)
	require.NoError(t, err)

	return out
}

// writeProblem stores doc in a temporary directory.
func writeProblem(t *testing.T, doc string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return dir, path
}

func TestSegmentAndRefine(t *testing.T) {
	dir, problem := writeProblem(t, corridor)

	stdout := mustRun(t, "segment", problem)
	var doc config.Result
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	require.Equal(t, "edge", doc.Mode)
	require.Len(t, doc.Path, 6)
	require.Equal(t, [3]int{0, 1, 0}, doc.Path[0])
	require.Equal(t, [3]int{5, 1, 0}, doc.Path[5])
	require.Nil(t, doc.Refined)

	result := filepath.Join(dir, "result.yaml")
	prom := filepath.Join(dir, "curvex.prom")
	mustRun(t, "segment", problem, "--refine", "--out", result, "--metrics-file", prom)
	pts, err := config.LoadPath(result)
	require.NoError(t, err)
	require.Len(t, pts, 6)
	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `curvex_extract_queries_total{mode="edge",outcome="success"} 1`)
	require.Contains(t, string(metrics), "curvex_refine_total")

	stdout = mustRun(t, "refine", problem, "--path", result)
	require.Contains(t, stdout, "refined:")
}

func TestSegment_MissingProblem(t *testing.T) {
	_, err := run("segment", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestSegment_UnsupportedRefineFailsEarly: an unsupported solver is
// rejected before any search work, and the metrics file is still written.
func TestSegment_UnsupportedRefineFailsEarly(t *testing.T) {
	for _, section := range []string{"refine:\n  method: nelder-mead\n", "refine:\n  unary: trilinear\n"} {
		dir, problem := writeProblem(t, strings.Replace(corridor, "refine:\n  max_iterations: 20\n", section, 1))
		prom := filepath.Join(dir, "curvex.prom")

		_, err := run("segment", problem, "--refine", "--metrics-file", prom)
		require.ErrorIs(t, err, refine.ErrUnsupported)
		require.NotContains(t, err.Error(), "refine: refine:")

		data, err := os.ReadFile(prom)
		require.NoError(t, err)
		require.NotContains(t, string(data), "curvex_extract_queries_total")
	}
}

// TestSegment_FailureWritesMetrics: failed queries still reach the
// metrics file under their outcome label.
func TestSegment_FailureWritesMetrics(t *testing.T) {
	dir, problem := writeProblem(t, corridor+"search:\n  max_queue_size: 1\n")
	prom := filepath.Join(dir, "curvex.prom")

	_, err := run("segment", problem, "--metrics-file", prom)
	require.ErrorIs(t, err, extract.ErrResourceLimit)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(data), `curvex_extract_queries_total{mode="edge",outcome="queue_limit"} 1`)
}
