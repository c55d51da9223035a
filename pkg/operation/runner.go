// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes operations and spreads per-file work over a bounded number of workers
type Runner struct {
	workers int
}

// 🏗️ NewRunner creates a new runner. Fewer than one worker means one.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers}
}

// 🏃 Run executes an operation and logs its outcome
func (r *Runner) Run(ctx context.Context, op Operation) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	summary, err := op.Execute(ctx)

	ev := logger.Debug()
	if err != nil {
		ev = logger.Error().Err(err)
	}
	if summary != nil {
		ev = ev.Int("files", summary.Scanned).
			Int("changed", summary.Changed).
			Int("replacements", summary.Replacements).
			Int("failed", summary.Failed)
	}
	ev.Str("operation", op.Name()).
		Dur("took", time.Since(start)).
		Msg("operation finished")

	if err != nil {
		return summary, errors.Errorf("running %s: %w", op.Name(), err)
	}
	return summary, nil
}

// 🔁 ForEach calls fn for 0..n-1. With one worker the calls happen in order on
// the calling goroutine. No new call starts once ctx is done; calls already
// started run to completion.
func (r *Runner) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if r.workers == 1 {
		return r.forEachSync(ctx, n, fn)
	}
	return r.forEachAsync(ctx, n, fn)
}

// 🔄 forEachSync runs the calls sequentially
func (r *Runner) forEachSync(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ forEachAsync runs the calls on an errgroup limited to the worker count
func (r *Runner) forEachAsync(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.Errorf("operation cancelled: %w", ctx.Err())
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}
	return nil
}
