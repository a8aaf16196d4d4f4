// Command besmarts is the CLI entrypoint of spec.md §6's external
// interface: run an optimization from a dataset file, resume one from its
// last checkpoint, or diff two checkpoints.
//
// Grounded on the teacher's own cmd/graft/main.go: a single goptions.Verbs
// dispatch, one options struct per verb, ansi color auto-detection via
// isatty, and exit codes on error rather than panicking.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/ntBre/besmarts/internal/checkpoint"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/config"
	"github.com/ntBre/besmarts/internal/log"
	"github.com/ntBre/besmarts/internal/nodepath"
	"github.com/ntBre/besmarts/internal/optimizer"
	"github.com/ntBre/besmarts/internal/progress"
	"github.com/ntBre/besmarts/internal/report"
	"github.com/ntBre/besmarts/internal/splitter"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/workqueue"
)

var exit = os.Exit

type runOpts struct {
	Dataset string `goptions:"--dataset, obligatory, description='Path to the dataset YAML file'"`
	Config  string `goptions:"--config, description='Path to the engine config YAML file'"`
	Help    bool   `goptions:"--help, -h"`
}

type resumeOpts struct {
	Dataset string `goptions:"--dataset, obligatory, description='Path to the dataset YAML file'"`
	Config  string `goptions:"--config, description='Path to the engine config YAML file'"`
	Help    bool   `goptions:"--help, -h"`
}

type diffOpts struct {
	Files goptions.Remainder `goptions:"description='Two checkpoint files to compare'"`
	Help  bool               `goptions:"--help, -h"`
}

type showOpts struct {
	Config string `goptions:"--config, description='Path to the engine config YAML file'"`
	Node   string `goptions:"--node, description='Dot-separated node path to print, e.g. p0.p3'"`
	Help   bool   `goptions:"--help, -h"`
}

func main() {
	var options struct {
		Color  string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action goptions.Verbs
		Run    runOpts    `goptions:"run"`
		Resume resumeOpts `goptions:"resume"`
		Diff   diffOpts   `goptions:"diff"`
		Show   showOpts   `goptions:"show"`
	}
	if err := goptions.Parse(&options); err != nil {
		goptions.PrintHelp()
		exit(1)
		return
	}

	switch options.Color {
	case "on":
		ansi.Color(true)
	case "off":
		ansi.Color(false)
	default:
		ansi.Color(isatty.IsTerminal(os.Stderr.Fd()))
	}

	var err error
	switch options.Action {
	case "run":
		err = runOptimize(options.Run.Dataset, options.Run.Config, false)
	case "resume":
		err = runOptimize(options.Resume.Dataset, options.Resume.Config, true)
	case "diff":
		err = diffCheckpoints(options.Diff.Files)
	case "show":
		err = showTree(options.Show.Config, options.Show.Node)
	default:
		goptions.PrintHelp()
		exit(1)
		return
	}
	if err != nil {
		log.Errorf("%s", err)
		exit(2)
	}
}

func runOptimize(datasetPath, configPath string, resume bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cd := codec.GraphCodec{}
	ds, err := loadDataset(datasetPath, cd)
	if err != nil {
		return err
	}

	backend, err := buildCheckpointBackend(cfg)
	if err != nil {
		return err
	}
	store := checkpoint.NewStore(backend, cfg.Checkpoint.Retain)

	var h = mustWildcardRoot(cd, ds.Topology)
	strat := strategy.New(defaultMacros(cfg), strategy.Caps{
		MacroAcceptMaxTotal:      cfg.Optimizer.MacroAcceptMaxTotal,
		MacroAcceptMaxPerCluster: cfg.Optimizer.MacroAcceptMaxPerCluster,
		MicroAcceptMaxTotal:      cfg.Optimizer.MicroAcceptMaxTotal,
		MicroAcceptMaxPerCluster: cfg.Optimizer.MicroAcceptMaxPerCluster,
		FilterAbove:              cfg.Optimizer.FilterAbove,
	})

	if resume {
		doc, ok, err := store.Latest()
		if err != nil {
			return fmt.Errorf("besmarts: loading checkpoint: %w", err)
		}
		if ok {
			h, strat, err = checkpoint.Restore(doc, cd, ds.Topology, defaultMacros(cfg), strat.Caps)
			if err != nil {
				return err
			}
		}
	}

	lbl, err := labelDataset(h, cd, ds.Molecules, ds.Topology, ds.Keys, ds.Assignment)
	if err != nil {
		return err
	}

	c := clusteringOf(h, lbl)
	snap, err := snapshotOf(cd, ds, cfg)
	if err != nil {
		return err
	}

	if cfg.Dispatch.WorkerCount <= 0 {
		cfg.Dispatch.WorkerCount = workqueue.WorkerCount(len(ds.Keys))
	}
	queue, closeQueue, err := buildQueue(cfg)
	if err != nil {
		return err
	}
	defer closeQueue()

	oCfg := optimizer.Config{
		Splitter:       splitter.ElementSplitter{},
		Queue:          queue,
		Store:          store,
		DatasetEntries: ds.Entries,
	}

	result, err := optimizer.Run(oCfg, snap, c, strat)
	if err != nil {
		return err
	}

	fmt.Println(progress.Tree(result.Clustering.Hierarchy, func(leaf string) string {
		return snap.Objective.Report(groupFor(snap, result.Clustering, leaf))
	}))
	fmt.Printf("final X = %.6f across %d macro(s)\n", result.X, result.Macros)
	return nil
}

func diffCheckpoints(files []string) error {
	if len(files) != 2 {
		return fmt.Errorf("besmarts: diff requires exactly two checkpoint files")
	}
	fromData, err := os.ReadFile(files[0])
	if err != nil {
		return err
	}
	toData, err := os.ReadFile(files[1])
	if err != nil {
		return err
	}
	from, err := checkpoint.Decode(fromData)
	if err != nil {
		return err
	}
	to, err := checkpoint.Decode(toData)
	if err != nil {
		return err
	}
	out, err := report.Diff(from, to, files[0], files[1])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func showTree(configPath, nodePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	backend, err := buildCheckpointBackend(cfg)
	if err != nil {
		return err
	}
	store := checkpoint.NewStore(backend, cfg.Checkpoint.Retain)
	doc, ok, err := store.Latest()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("besmarts: no checkpoint found under %s", cfg.Checkpoint.Path)
	}
	path := nodepath.Parse(nodePath)
	for _, n := range doc.Clustering.Nodes {
		if path.Depth() == 0 || n.Name == path.Last() {
			fmt.Printf("%s: %s\n", n.Name, n.Smarts)
		}
	}
	return nil
}
