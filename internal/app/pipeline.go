// Package app runs the fetch → load → aggregate pipeline and keeps the
// dashboard supplied with fresh snapshots.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coviddash/internal/engine"
	"coviddash/internal/metrics"
	"coviddash/internal/models"
)

// Source yields the raw records of one snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]models.RawRecord, error)
}

// Sink receives each successfully built snapshot.
type Sink interface {
	SetData(s *engine.Snapshot)
}

type Pipeline struct {
	Source  Source
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Run performs one full load.
func (p *Pipeline) Run(ctx context.Context) (*engine.Snapshot, error) {
	t0 := time.Now()

	snap, err := p.run(ctx)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if p.Metrics != nil {
		p.Metrics.FetchDuration.WithLabelValues(outcome).Observe(time.Since(t0).Seconds())
	}
	if err != nil {
		return nil, err
	}

	if p.Metrics != nil {
		p.Metrics.Records.Set(float64(snap.Data.Records))
		p.Metrics.RegionTotals.Set(float64(len(snap.Data.RegionTotals)))
		p.Metrics.LastLoad.Set(float64(snap.Data.LoadedAt.Unix()))
	}
	p.Logger.Info("snapshot loaded",
		"records", snap.Data.Records,
		"regions", len(snap.Data.Regions),
		"days", len(snap.Data.CountryTotals),
		"elapsed", time.Since(t0))
	return snap, nil
}

func (p *Pipeline) run(ctx context.Context) (*engine.Snapshot, error) {
	records, err := p.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	store, err := engine.Load(records)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return &engine.Snapshot{Store: store, Data: store.Aggregate()}, nil
}

// Serve loads once and publishes to sink. A failed first load is returned.
// With a positive interval it then reloads on every tick until ctx is done;
// a failed reload is logged and the previous snapshot stays published.
func (p *Pipeline) Serve(ctx context.Context, sink Sink, interval time.Duration) error {
	p.Logger.Info("starting ETL pipeline")

	snap, err := p.Run(ctx)
	if err != nil {
		return err
	}
	sink.SetData(snap)

	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := p.Run(ctx)
			if err != nil {
				p.Logger.Error("refresh failed, keeping previous snapshot", "error", err)
				continue
			}
			sink.SetData(snap)
		}
	}
}
