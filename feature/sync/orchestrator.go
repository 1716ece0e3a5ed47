package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Client pushes candidate batches to one remote environment. The remote side
// resolves identity against its own store and returns per-record outcomes.
type Client interface {
	ImportBatch(ctx context.Context, batch importer.Batch, dryRun bool) (*importer.BatchResult, error)
}

// ClientFactory builds a client for a target once its credential resolved.
type ClientFactory func(target Target, credential string) Client

// TargetResult is the outcome of syncing one target. Err is set only for
// failures that prevented the run entirely, like a missing credential.
type TargetResult struct {
	Target string                `json:"target"`
	Result *importer.BatchResult `json:"result,omitempty"`
	Err    error                 `json:"-"`
}

// Orchestrator pushes one batch to several environments in parallel. Targets
// are independent: one failing never stops the others, and the orchestrator
// itself never returns an error.
type Orchestrator struct {
	factory ClientFactory
	logger  *zap.Logger
}

// NewOrchestrator creates an Orchestrator using the given client factory.
func NewOrchestrator(factory ClientFactory, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{factory: factory, logger: logger}
}

// Run syncs the batch to every target. Results come back in target order.
func (o *Orchestrator) Run(ctx context.Context, targets []Target, batch importer.Batch, dryRun bool) []TargetResult {
	results := make([]TargetResult, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for idx, target := range targets {
		idx, target := idx, target
		g.Go(func() error {
			res := o.runTarget(gctx, target, batch, dryRun)
			mu.Lock()
			results[idx] = res
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}

func (o *Orchestrator) runTarget(ctx context.Context, target Target, batch importer.Batch, dryRun bool) TargetResult {
	credential, err := target.Credential()
	if err != nil {
		o.logger.Warn("skipping target", zap.String("target", target.Name), zap.Error(err))
		return TargetResult{Target: target.Name, Err: err}
	}

	client := o.factory(target, credential)
	result, err := client.ImportBatch(ctx, batch, dryRun)
	if err != nil {
		// A transport failure still yields a result so totals line up: every
		// record in the batch is counted as an error for this target.
		o.logger.Error("target sync failed", zap.String("target", target.Name), zap.Error(err))
		return TargetResult{
			Target: target.Name,
			Result: failedResult(batch, target.Name, err),
			Err:    err,
		}
	}

	o.logger.Info("target synced",
		zap.String("target", target.Name),
		zap.Bool("dry_run", dryRun),
		zap.Int("shows", result.Shows.Total),
	)
	return TargetResult{Target: target.Name, Result: result}
}

func failedResult(batch importer.Batch, target string, err error) *importer.BatchResult {
	fail := func(n int) importer.Outcome {
		out := importer.Outcome{Total: n, Errors: n}
		if n > 0 {
			out.Messages = []string{fmt.Sprintf("%s: target %s unreachable: %v", importer.StatusError, target, err)}
		}
		return out
	}
	return &importer.BatchResult{
		Venues:  fail(len(batch.Venues)),
		Artists: fail(len(batch.Artists)),
		Shows:   fail(len(batch.Shows)),
	}
}
