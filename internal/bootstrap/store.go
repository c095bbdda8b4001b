// Package bootstrap wires configuration into a ready trip store for the
// command entry points.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"trip-planner/internal/config"
	"trip-planner/internal/kv"
	"trip-planner/internal/storage"
	"trip-planner/internal/trips"
)

// OpenStore opens the configured kv backend and loads trips from it. Corrupt
// stored data is logged and the store starts empty; any other load failure
// is returned. The returned close func releases the backend.
func OpenStore(ctx context.Context, cfg *config.Config) (*trips.Store, func(), error) {
	backend, err := kv.Open(kv.Backend(cfg.KVBackend), cfg.KVFilePath, cfg.KVSQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open kv store: %w", err)
	}
	closeFn := func() {
		if err := backend.Close(); err != nil {
			log.Printf("failed to close kv store: %v", err)
		}
	}

	loc := cfg.Location()
	opts := []trips.Option{
		trips.WithKey(cfg.TripsKey),
		trips.WithClock(func() time.Time { return time.Now().In(loc) }),
	}
	if cfg.AuditLogPath != "" {
		rec, err := storage.NewFileRecorder(cfg.AuditLogPath)
		if err != nil {
			log.Printf("failed to init audit log: %v", err)
		} else {
			opts = append(opts, trips.WithRecorder(rec))
		}
	}

	store, err := trips.New(ctx, backend, opts...)
	switch {
	case errors.Is(err, trips.ErrCorruptData):
		log.Printf("⚠️ %v; starting with an empty trip list", err)
	case err != nil:
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}
