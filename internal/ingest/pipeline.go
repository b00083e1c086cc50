// Package ingest pulls raw rows from the spreadsheet source, normalizes
// them, and atomically replaces the record snapshot.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shuhratov/loyihabot/internal/domain/record"
	"github.com/shuhratov/loyihabot/internal/repository"
)

// Source pulls the complete current row set from the spreadsheet.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// Pipeline refreshes the record snapshot from the source on demand and on
// a fixed interval.
type Pipeline struct {
	source Source
	repo   repository.RecordRepository
	schema Schema
	logger *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(source Source, repo repository.RecordRepository, schema Schema, logger *slog.Logger) *Pipeline {
	return &Pipeline{source: source, repo: repo, schema: schema, logger: logger}
}

// Refresh pulls the full row set, normalizes every row independently, and
// replaces the snapshot in one transaction. A failing pull or an empty or
// too-narrow row set leaves the previous snapshot untouched.
func (p *Pipeline) Refresh(ctx context.Context) error {
	runID := uuid.NewString()
	started := time.Now()

	rows, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrSourceUnavailable, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: source returned zero rows", repository.ErrSourceUnavailable)
	}

	minCols := p.schema.MinColumns()
	widest := 0
	for _, row := range rows {
		if len(row) > widest {
			widest = len(row)
		}
	}
	if widest < minCols {
		return fmt.Errorf("%w: widest row has %d columns, need %d", repository.ErrSchemaMismatch, widest, minCols)
	}

	recs := make([]record.ProjectRecord, 0, len(rows))
	deadlines := 0
	for _, row := range rows {
		rec := p.schema.Row(row)
		if rec.Deadline != nil {
			deadlines++
		}
		recs = append(recs, rec)
	}

	if err := p.repo.ReplaceAll(ctx, recs); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	p.logger.Info("snapshot refreshed",
		"run_id", runID,
		"records", len(recs),
		"with_deadline", deadlines,
		"elapsed", time.Since(started))
	return nil
}

// Run performs one synchronous refresh, then keeps refreshing on the
// interval until the context ends. Cycles never overlap. The initial
// refresh error is returned so startup can decide whether to proceed;
// later failures are logged and the previous snapshot stays live.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	err := p.Refresh(ctx)
	if err != nil {
		p.logger.Error("initial refresh failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.Refresh(ctx); err != nil {
					p.logger.Error("refresh failed, keeping previous snapshot", "error", err)
				}
			}
		}
	}()

	return err
}
