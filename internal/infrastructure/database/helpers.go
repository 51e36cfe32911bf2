package database

import (
	"fmt"
	"time"
)

// PoolStats is a snapshot of connection pool statistics, used by the
// health endpoint and for debugging pool sizing.
type PoolStats struct {
	AcquiredConns   int32         `json:"acquired_conns"`
	IdleConns       int32         `json:"idle_conns"`
	TotalConns      int32         `json:"total_conns"`
	MaxConns        int32         `json:"max_conns"`
	AcquireCount    int64         `json:"acquire_count"`
	AcquireDuration time.Duration `json:"acquire_duration"`
}

// Stats returns a consistent snapshot of the pool metrics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()

	return &PoolStats{
		AcquiredConns:   raw.AcquiredConns(),
		IdleConns:       raw.IdleConns(),
		TotalConns:      raw.TotalConns(),
		MaxConns:        raw.MaxConns(),
		AcquireCount:    raw.AcquireCount(),
		AcquireDuration: raw.AcquireDuration(),
	}, nil
}
