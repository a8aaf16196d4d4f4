package main

import (
	"fmt"
	"time"

	"github.com/ntBre/besmarts/internal/checkpoint"
	"github.com/ntBre/besmarts/internal/clustering"
	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/config"
	"github.com/ntBre/besmarts/internal/hierarchy"
	"github.com/ntBre/besmarts/internal/labeler"
	"github.com/ntBre/besmarts/internal/objective"
	"github.com/ntBre/besmarts/internal/scorer"
	"github.com/ntBre/besmarts/internal/secrets"
	"github.com/ntBre/besmarts/internal/splitter"
	"github.com/ntBre/besmarts/internal/strategy"
	"github.com/ntBre/besmarts/internal/topology"
	"github.com/ntBre/besmarts/internal/workqueue"
)

// mustWildcardRoot builds the default root hierarchy, panicking only on a
// codec failure a well-formed topology can never actually trigger (the
// wildcard pattern always round-trips through SmartsEncode).
func mustWildcardRoot(cd codec.Codec, topo topology.Topology) *hierarchy.Hierarchy {
	h, err := wildcardRoot(cd, topo)
	if err != nil {
		panic(err)
	}
	return h
}

// defaultMacros is the CLI's single built-in strategy plan: one macro that
// targets the root node with both iterative and direct SPLIT enumeration,
// followed by a MERGE pass over the same node. A config file cannot yet
// describe an arbitrary macro/micro plan (SPEC_FULL.md's declarative
// strategy DSL is out of scope for this entrypoint); that richer plan is
// exactly what a checkpoint's Strategy section is for once a run is
// underway, and resume always supplies its own macros back through this
// same function.
func defaultMacros(cfg config.Config) []strategy.Macro {
	root := "p0"
	perception := splitter.PerceptionConfig{
		Splitter: splitter.Config{SplitGeneral: true, SplitSpecific: true},
		Extender: splitter.ExtenderConfig{DepthMax: 0},
	}
	return []strategy.Macro{
		{
			Steps: []strategy.MicroStep{
				{
					Operation:       strategy.OpSplit,
					ClusterNode:     root,
					Perception:      perception,
					Overlap:         []int{0},
					IterativeEnable: true,
					DirectEnable:    true,
					DirectLimit:     1 << 20,
				},
				{
					Operation:   strategy.OpMerge,
					ClusterNode: root,
					Perception:  perception,
					Overlap:     []int{0},
				},
			},
		},
	}
}

// clusteringOf wraps a freshly labeled hierarchy into a Clustering, the
// shape optimizer.Run expects as its starting point.
func clusteringOf(h *hierarchy.Hierarchy, lbl *labeler.Labeling) *clustering.Clustering {
	return &clustering.Clustering{Hierarchy: h, Labeling: lbl}
}

// snapshotOf bundles the loaded dataset into the read-only scorer.Snapshot
// every worker task and the optimizer loop itself share.
func snapshotOf(cd codec.Codec, ds loadedDataset, cfg config.Config) (scorer.Snapshot, error) {
	obj, err := buildObjective(cfg.Optimizer.Objective)
	if err != nil {
		return scorer.Snapshot{}, err
	}
	return scorer.Snapshot{
		Codec:      cd,
		Labeler:    labeler.FirstMatch{},
		Objective:  obj,
		Assignment: ds.Assignment,
		Molecules:  ds.Molecules,
		Topology:   ds.Topology,
		Keys:       ds.Keys,
	}, nil
}

// buildObjective selects spec.md §4.7's scoring function: the built-in
// sum-of-variance objective, or a user-supplied govaluate expression
// (internal/objective.ExprObjective) when config.ObjectiveConfig.Kind is
// "expr" — the pluggable-objective contract surfaced through config rather
// than reachable only from ExprObjective's own unit test.
func buildObjective(cfg config.ObjectiveConfig) (objective.Objective, error) {
	if cfg.Kind != "expr" {
		return objective.NewVariance(), nil
	}
	return objective.NewExprObjective(cfg.SingleExpr, cfg.SplitExpr, cfg.MergeExpr, cfg.Discrete)
}

// groupFor resolves one leaf's owned ICs to the objective.Group its report
// string is built from, used by the final tree printout.
func groupFor(snap scorer.Snapshot, c *clustering.Clustering, leaf string) objective.Group {
	mapping := c.Mapping()
	return scorer.Group(snap, mapping[leaf])
}

// buildQueue selects the candidate-scoring work-queue backend named by
// cfg.Dispatch.Backend: an in-process workqueue.LocalPool for "local", or a
// workqueue.NATSQueue for "nats" (spec.md §5's remote-worker case). The
// returned closer must be called once the optimizer run finishes; it is a
// no-op for the local pool, which owns no external connection.
func buildQueue(cfg config.Config) (workqueue.Queue, func(), error) {
	workers := cfg.Dispatch.WorkerCount
	switch cfg.Dispatch.Backend {
	case "nats":
		nc := workqueue.NATSConfig{
			ServerAddress: cfg.Dispatch.ServerAddress,
			Subject:       cfg.Dispatch.Subject,
			PollInterval:  time.Duration(cfg.Dispatch.PollIntervalSeconds) * time.Second,
		}
		if cfg.Dispatch.AuthSecretsPath != "" {
			src, err := secrets.New(secrets.Config{
				Address: cfg.Secrets.Address,
				Token:   cfg.Secrets.Token,
				Mount:   cfg.Secrets.Mount,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("dispatch: opening secrets source: %w", err)
			}
			token, err := src.GetToken(cfg.Dispatch.AuthSecretsPath)
			if err != nil {
				return nil, nil, fmt.Errorf("dispatch: resolving nats auth token: %w", err)
			}
			nc.AuthToken = token
		}
		q, err := workqueue.DialNATSQueue(nc)
		if err != nil {
			return nil, nil, fmt.Errorf("dispatch: dialing nats queue: %w", err)
		}
		return q, q.Close, nil
	default:
		return workqueue.NewLocalPool(workers), func() {}, nil
	}
}

// buildCheckpointBackend selects the checkpoint storage backend named by
// cfg.Checkpoint.Backend: the local filesystem for "file", or S3 for "s3"
// (SPEC_FULL.md §3). When S3SecretsPath is set the access/secret key pair
// is resolved through internal/secrets instead of aws-sdk-go's default
// provider chain.
func buildCheckpointBackend(cfg config.Config) (checkpoint.Backend, error) {
	if cfg.Checkpoint.Backend != "s3" {
		return checkpoint.NewFileBackend(cfg.Checkpoint.Path), nil
	}
	if cfg.Checkpoint.S3SecretsPath == "" {
		return checkpoint.NewS3Backend(cfg.Checkpoint.S3Region, cfg.Checkpoint.S3Bucket, cfg.Checkpoint.S3Prefix)
	}
	src, err := secrets.New(secrets.Config{
		Address: cfg.Secrets.Address,
		Token:   cfg.Secrets.Token,
		Mount:   cfg.Secrets.Mount,
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening secrets source: %w", err)
	}
	cred, err := src.Get(cfg.Checkpoint.S3SecretsPath)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: resolving s3 credentials: %w", err)
	}
	return checkpoint.NewS3BackendWithCredentials(
		cfg.Checkpoint.S3Region, cfg.Checkpoint.S3Bucket, cfg.Checkpoint.S3Prefix,
		cred.AccessKey, cred.SecretKey,
	)
}
