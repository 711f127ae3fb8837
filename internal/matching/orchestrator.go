// Package matching coordinates the remote and local matchers: it tries the
// language-model service first when asked to, falls back to the local
// heuristics when the service fails, and returns a ranking sorted by score.
package matching

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/MartinBouvet/panel-entreprises/internal/ai"
	"github.com/MartinBouvet/panel-entreprises/internal/company"
	"github.com/MartinBouvet/panel-entreprises/internal/criteria"
)

// ErrNoCompanies reports a match request against an empty roster. It is a
// request error, not a service failure, so no fallback applies.
var ErrNoCompanies = errors.New("no companies to match")

const defaultRemoteTimeout = 15 * time.Second

// Orchestrator routes a match request to the remote matcher or the local one.
// The remote path runs under its own timeout; any remote failure other than
// caller cancellation downgrades the whole request to the local matcher.
type Orchestrator struct {
	remote        ai.Matcher
	local         ai.Matcher
	logger        *zap.Logger
	remoteTimeout time.Duration
}

type Option func(*Orchestrator)

// WithRemoteTimeout overrides the per-request deadline of the remote matcher.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.remoteTimeout = d
		}
	}
}

// NewOrchestrator builds an orchestrator. remote may be nil when no remote
// service is configured; every request then runs locally.
func NewOrchestrator(remote, local ai.Matcher, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		remote:        remote,
		local:         local,
		logger:        logger,
		remoteTimeout: defaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Match ranks the roster against the criteria. With useAI set and a remote
// matcher configured it asks the service first; a remote failure falls back
// to the local matcher for the entire roster, never a partial mix of both.
// The result is sorted by descending score, ties keeping roster order.
func (o *Orchestrator) Match(ctx context.Context, companies *company.Companies, list []*criteria.Criterion, useAI bool) (*company.Ranking, error) {
	if companies == nil || companies.Len() == 0 {
		return nil, ErrNoCompanies
	}

	var (
		results []*company.Scored
		err     error
	)

	if useAI && o.remote != nil {
		results, err = o.matchRemote(ctx, companies, list)
		if err != nil {
			// A cancelled caller gets the cancellation, not a fallback run.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			o.logger.Warn("remote matching failed, falling back to heuristics",
				zap.Error(err),
			)
			results, err = o.local.Match(ctx, companies, list)
		}
	} else {
		results, err = o.local.Match(ctx, companies, list)
	}

	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return &company.Ranking{Items: results}, nil
}

func (o *Orchestrator) matchRemote(ctx context.Context, companies *company.Companies, list []*criteria.Criterion) ([]*company.Scored, error) {
	remoteCtx, cancel := context.WithTimeout(ctx, o.remoteTimeout)
	defer cancel()

	started := time.Now()
	results, err := o.remote.Match(remoteCtx, companies, list)
	if err != nil {
		return nil, err
	}

	o.logger.Info("remote matching succeeded",
		zap.Int("companies", companies.Len()),
		zap.Int("ranked", len(results)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return results, nil
}
