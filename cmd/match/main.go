package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/voxelbrain/goptions"

	"github.com/oncomatch/matchengine/internal/config"
	"github.com/oncomatch/matchengine/internal/logging"
	"github.com/oncomatch/matchengine/internal/oncotree"
	"github.com/oncomatch/matchengine/internal/store"
	"github.com/oncomatch/matchengine/pkg/matchengine"
	"github.com/oncomatch/matchengine/pkg/matchengine/transforms"
)

// Version holds the current version of the matching CLI.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

type options struct {
	ProtocolNo []string `goptions:"--protocol-no, description='Restrict matching to this protocol number (may be specified more than once)'"`
	SampleID   []string `goptions:"--sample-id, description='Restrict clinical queries to this sample id (may be specified more than once)'"`
	Config     string   `goptions:"--config, obligatory, description='Path to the transform configuration file'"`
	Seed       string   `goptions:"--seed, description='Path to a JSON fixture seeding the in-memory document store'"`
	OncoTree   string   `goptions:"--oncotree, description='Path to an OncoTree hierarchy file'"`
	Debug      bool     `goptions:"--debug, description='Enable debug-level logging'"`
	Version    bool     `goptions:"-v, --version, description='Display version information'"`
	Help       bool     `goptions:"-h, --help"`
}

func main() {
	var opts options
	getopts(&opts)

	if opts.Help {
		usage()
		return
	}
	if opts.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	level := logging.LevelInfo
	if opts.Debug {
		level = logging.LevelDebug
	}
	log := logging.New(os.Stderr, level)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Warnf("%v", err)
		exit(1)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Warnf("%v", err)
		exit(1)
		return
	}

	var collections map[string][]store.RawDoc
	if opts.Seed != "" {
		collections, err = store.LoadSeed(opts.Seed)
		if err != nil {
			log.Warnf("%v", err)
			exit(1)
			return
		}
	}
	docStore := store.NewMemory(collections)

	var onco matchengine.OncoTreeIndex
	if opts.OncoTree != "" {
		idx, err := oncotree.Load(opts.OncoTree)
		if err != nil {
			log.Warnf("%v", err)
			exit(1)
			return
		}
		onco = idx
	}

	protocolFilter := map[string]bool{}
	for _, p := range opts.ProtocolNo {
		protocolFilter[p] = true
	}

	pipeline := matchengine.Pipeline{
		Source:    &matchengine.TrialSource{Store: docStore, Log: log},
		Extractor: &matchengine.MatchClauseExtractor{Log: log},
		Translator: &matchengine.CriteriaTranslator{
			Config:        cfg,
			Registry:      builtinRegistry(),
			OncoTree:      onco,
			ReferenceTime: referenceTime(),
			Log:           log,
		},
		Runner:    &matchengine.TwoPhaseQueryRunner{Store: docStore, Config: cfg, Log: log},
		Log:       log,
		SampleIDs: opts.SampleID,
	}

	matches, err := pipeline.Run(context.Background(), protocolFilter)
	if err != nil {
		if merr, ok := err.(*matchengine.MatchError); ok {
			log.Warnf("%v", merr)
			exit(exitCodeFor(merr))
			return
		}
		log.Warnf("%v", err)
		exit(1)
		return
	}

	for _, m := range matches {
		printfStdOut("%s\t%s\t%d result(s)\n", m.Trial.ProtocolNo, m.MatchClauseData.ParentPath.String(), len(m.RawResults))
	}
	exit(0)
}

// builtinRegistry constructs a fresh TransformRegistry populated with the
// fixed named transform set (SPEC_FULL.md §4.5).
func builtinRegistry() *matchengine.TransformRegistry {
	r := matchengine.NewTransformRegistry()
	transforms.RegisterBuiltins(r)
	return r
}

// referenceTime is the pipeline's reference clock for this run. Every
// transform sees the same instant regardless of how long the run takes
// (SPEC_FULL.md §9).
func referenceTime() time.Time {
	return time.Now().UTC()
}

// exitCodeFor maps a fatal MatchError's kind onto spec.md §6's exit codes:
// 0 success, 1 ConfigError, 2 StoreConnectivityError.
func exitCodeFor(err *matchengine.MatchError) int {
	switch err.Kind {
	case matchengine.KindStoreConnectivity:
		return 2
	default:
		return 1
	}
}
