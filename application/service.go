package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/tsbench/corpusctl/domain"
)

// PipelineService orchestrates the full hydration-and-metrics flow:
// load snapshot -> hydrate each entry -> analyze -> assemble the metadata
// artifact. Entries are processed sequentially, one repository fully
// before the next; a failing repository never aborts the batch.
type PipelineService struct {
	source     domain.SnapshotSource
	hydrator   domain.Hydrator
	lines      domain.LineCounter
	strictness domain.StrictnessReader
	graph      domain.GraphRunner
	store      domain.MetadataStore
	skips      domain.SkipLog
}

// NewPipelineService creates the service from its collaborators.
func NewPipelineService(
	source domain.SnapshotSource,
	hydrator domain.Hydrator,
	lines domain.LineCounter,
	strictness domain.StrictnessReader,
	graph domain.GraphRunner,
	store domain.MetadataStore,
	skips domain.SkipLog,
) *PipelineService {
	return &PipelineService{
		source:     source,
		hydrator:   hydrator,
		lines:      lines,
		strictness: strictness,
		graph:      graph,
		store:      store,
		skips:      skips,
	}
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	Verbose bool
	// RepoFilter restricts the run to one owner/name when set (CLI override).
	RepoFilter string
}

// Run executes the pipeline over the frozen snapshot. The only fatal
// errors are setup ones (missing snapshot, unwritable artifacts); every
// per-repository failure is logged, skip-logged where hydration failed,
// and otherwise degraded in place.
func (s *PipelineService) Run(ctx context.Context, opts RunOptions) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	entries, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	if resetErr := s.skips.Reset(); resetErr != nil {
		return fmt.Errorf("reset skip log: %w", resetErr)
	}

	records := make(map[string]domain.HydratedRecord, len(entries))
	attempted := 0

	for _, entry := range entries {
		if opts.RepoFilter != "" && entry.Repo != opts.RepoFilter {
			continue
		}
		attempted++

		record, ok := s.processEntry(ctx, entry)
		if !ok {
			continue
		}
		records[entry.Repo] = record
	}

	if storeErr := s.store.Replace(records); storeErr != nil {
		return fmt.Errorf("write metadata artifact: %w", storeErr)
	}

	logger.Infof(
		"Run complete: %d of %d repositories in metadata artifact",
		len(records), attempted,
	)
	return nil
}

// processEntry runs hydrate -> analyze for one entry. A hydration failure
// omits the repository from the mapping entirely; analyzer failures keep
// the repository with degraded metrics. The metrics stage never assumes a
// previous stage fully succeeded: a checkout failure leaves the tree in
// an indeterminate state, so analysis only runs on a verified tree.
func (s *PipelineService) processEntry(
	ctx context.Context,
	entry domain.CorpusEntry,
) (domain.HydratedRecord, bool) {
	root, err := s.hydrator.Hydrate(ctx, entry)
	if err != nil {
		logger.Errorf("✖ %s: %v", entry.Repo, err)
		if logErr := s.skips.Record(entry.Repo, err.Error()); logErr != nil {
			logger.Warnf("Failed to record skip for %s: %v", entry.Repo, logErr)
		}
		return domain.HydratedRecord{}, false
	}

	counts, countErr := s.lines.Count(root)
	if countErr != nil {
		logger.Warnf("Line count failed for %s: %v", entry.Repo, countErr)
		counts = domain.LanguageLineCounts{}
	}

	flags := s.strictness.Read(root)
	graph := s.graph.ComputeModuleCount(ctx, root)

	logger.Infof(
		"✔ %s @ %.7s (loc=%d, modules=%s)",
		entry.Repo, entry.CommitSHA, counts.Total, describeGraph(graph),
	)

	return domain.HydratedRecord{
		CorpusEntry: entry,
		Lines:       counts,
		Strictness:  flags,
		Graph:       graph,
	}, true
}

func describeGraph(g domain.GraphMetrics) string {
	if g.Failed() {
		return "error"
	}
	return fmt.Sprintf("%d", g.ModuleCount())
}
