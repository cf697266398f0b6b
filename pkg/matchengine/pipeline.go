package matchengine

import (
	"context"
	"fmt"

	"github.com/oncomatch/matchengine/internal/logging"
	"github.com/oncomatch/matchengine/internal/workerpool"
)

// Pipeline wires the whole matching run together (spec.md §5): one
// producer walks trials and enumerates match paths, a fixed pool of
// workers translates and queries each path, and a single emitter collects
// the resulting TrialMatches, logging non-fatal errors as warnings.
type Pipeline struct {
	Source     *TrialSource
	Extractor  *MatchClauseExtractor
	Translator *CriteriaTranslator
	Runner     *TwoPhaseQueryRunner
	Log        *logging.Logger

	Workers   int
	QueueSize int

	// SampleIDs restricts every path's clinical query to this explicit
	// set of samples; empty means the translator's alive-only default
	// applies instead (spec.md §4.5, §6.3).
	SampleIDs []string
}

// pathTask is one (trial, match clause, match path) unit of work
// submitted to the worker pool.
type pathTask struct {
	id         string
	trial      Trial
	clauseData MatchClauseData
	path       MatchCriterion
	sampleIDs  []string
	translator *CriteriaTranslator
	runner     *TwoPhaseQueryRunner
}

func (t pathTask) ID() string { return t.id }

func (t pathTask) Execute(ctx context.Context) (interface{}, error) {
	query, err := t.translator.Translate(t.path, t.sampleIDs, t.trial.ProtocolNo, t.clauseData.ParentPath.String())
	if err != nil {
		return nil, err
	}
	results, err := t.runner.Run(ctx, t.trial.ProtocolNo, t.clauseData.ParentPath.String(), query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return TrialMatch{
		Trial:           t.trial,
		MatchClauseData: t.clauseData,
		MatchPath:       t.path,
		Query:           query,
		RawResults:      results,
	}, nil
}

// Run executes one end-to-end matching pass: every open trial matching
// protocolFilter (nil/empty means all), every match path within it,
// translated and queried concurrently. It returns every non-empty
// TrialMatch found; per-path failures that aren't fatal are logged as
// warnings and otherwise ignored, matching spec.md §7's "abandon the path,
// not the run" policy. A fatal MatchError (config, store connectivity,
// unknown transform) stops the run and is returned as err.
func (p *Pipeline) Run(ctx context.Context, protocolFilter map[string]bool) ([]TrialMatch, error) {
	trials, err := p.Source.Open(ctx, protocolFilter)
	if err != nil {
		return nil, err
	}

	tasks := p.enumerateTasks(trials)

	pool := workerpool.New(ctx, workerpool.Config{Workers: p.workers(), QueueSize: p.queueSize()})

	submitErrCh := make(chan error, 1)
	go func() {
		defer pool.Shutdown()
		for _, task := range tasks {
			if err := pool.Submit(task); err != nil {
				submitErrCh <- err
				return
			}
		}
		submitErrCh <- nil
	}()

	var matches []TrialMatch
	for result := range pool.Results() {
		if result.Err != nil {
			if merr, ok := result.Err.(*MatchError); ok && merr.Fatal() {
				return nil, merr
			}
			if p.Log != nil {
				p.Log.Warnf("abandoning path %s: %v", result.ID, result.Err)
			}
			continue
		}
		if result.Value == nil {
			continue
		}
		matches = append(matches, result.Value.(TrialMatch))
	}

	if err := <-submitErrCh; err != nil {
		return matches, err
	}

	return matches, nil
}

// enumerateTasks expands every trial into its full set of path tasks,
// mirroring the producer side of spec.md §5's pipeline: TrialSource ->
// MatchClauseExtractor -> MatchTreeBuilder -> MatchPathEnumerator.
func (p *Pipeline) enumerateTasks(trials []Trial) []workerpool.Task {
	enumerator := MatchPathEnumerator{}

	var tasks []workerpool.Task
	for _, trial := range trials {
		clauses, err := p.Extractor.Extract(trial)
		if err != nil {
			if p.Log != nil {
				p.Log.Warnf("trial %s: %v", trial.ProtocolNo, err)
			}
		}
		for _, clauseData := range clauses {
			tree := BuildMatchTree(clauseData.MatchClause)
			paths := enumerator.Enumerate(tree)
			for i, path := range paths {
				tasks = append(tasks, pathTask{
					id:         fmt.Sprintf("%s/%s/%d", trial.ProtocolNo, clauseData.ParentPath.String(), i),
					trial:      trial,
					clauseData: clauseData,
					path:       path,
					sampleIDs:  p.SampleIDs,
					translator: p.Translator,
					runner:     p.Runner,
				})
			}
		}
	}
	return tasks
}

func (p *Pipeline) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return 4
}

func (p *Pipeline) queueSize() int {
	if p.QueueSize > 0 {
		return p.QueueSize
	}
	return 64
}
