package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/tsbench/corpusctl/domain"
)

// GraphOptions configures the external dependency-graph tool invocation.
type GraphOptions struct {
	Tool       string   // executable name, e.g. "madge"
	Extensions []string // source extensions to scan, without dots
	Exclude    string   // exclusion pattern for build/test directories
}

// GraphAdapter implements domain.GraphRunner by shelling out to madge and
// reducing its JSON adjacency report to a module count. Every failure
// path degrades to an error-carrying result so the batch never aborts on
// a single repository's graph.
type GraphAdapter struct {
	opts   GraphOptions
	runner domain.CommandRunner
}

// NewGraphAdapter creates an adapter invoking the tool through runner.
func NewGraphAdapter(opts GraphOptions, runner domain.CommandRunner) *GraphAdapter {
	return &GraphAdapter{opts: opts, runner: runner}
}

var _ domain.GraphRunner = (*GraphAdapter)(nil)

// ComputeModuleCount runs the graph tool against root and returns the
// cardinality of the union of all graph nodes and all edge targets: every
// file that appears either as an analyzed module or as something imported
// by one.
func (a *GraphAdapter) ComputeModuleCount(
	ctx context.Context,
	root string,
) domain.GraphMetrics {
	args := []string{
		"--extensions", strings.Join(a.opts.Extensions, ","),
		"--exclude", a.opts.Exclude,
		"--json",
		".",
	}

	result, err := a.runner.Run(ctx, root, a.opts.Tool, args...)
	if err != nil {
		reason := classifyToolError(a.opts.Tool, result, err)
		logger.Warnf("Graph tool failed in %q: %s", root, reason)
		return domain.GraphFailure(reason)
	}

	return reduceReport(result.Stdout)
}

// classifyToolError distinguishes the expected circular-dependency exit
// from "tool missing" and "tool crashed". madge exits non-zero when the
// graph contains a cycle, which is a normal outcome for a repository, not
// a pipeline failure.
func classifyToolError(
	tool string,
	result domain.CommandResult,
	err error,
) string {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Sprintf("graph tool %q not installed", tool)
	}

	diagnostics := strings.ToLower(
		string(result.Stderr) + string(result.Stdout),
	)
	if strings.Contains(diagnostics, "circular") {
		return "circular dependency detected"
	}

	return fmt.Sprintf("graph tool failed: %v", err)
}

// reduceReport parses the adjacency JSON (module -> imported modules) and
// counts the union of keys and edge targets.
func reduceReport(report []byte) domain.GraphMetrics {
	var graph map[string][]string
	if err := json.Unmarshal(report, &graph); err != nil {
		return domain.GraphFailure(
			fmt.Sprintf("unparsable graph report: %v", err),
		)
	}

	modules := make(map[string]struct{}, len(graph))
	for node, targets := range graph {
		modules[node] = struct{}{}
		for _, target := range targets {
			modules[target] = struct{}{}
		}
	}

	return domain.GraphSuccess(len(modules))
}
