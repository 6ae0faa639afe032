package duckdb

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// RetentionConfig holds configuration for the retention sweeper.
type RetentionConfig struct {
	RetentionDays int
}

// RetentionSweeper periodically deletes saved searches whose last result is
// older than the configured retention period.
type RetentionSweeper struct {
	store         *Store
	retentionDays int
	done          chan struct{}
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewRetentionSweeper creates a sweeper that deletes stale saved searches.
// Returns nil when retention is 0 (disabled).
func NewRetentionSweeper(store *Store, conf RetentionConfig) *RetentionSweeper {
	if conf.RetentionDays <= 0 {
		return nil
	}

	rs := &RetentionSweeper{
		store:         store,
		retentionDays: conf.RetentionDays,
		done:          make(chan struct{}),
	}

	// Startup sweep to catch up after downtime.
	rs.sweep()

	rs.wg.Add(1)
	go rs.tickLoop()

	return rs
}

func (rs *RetentionSweeper) tickLoop() {
	defer rs.wg.Done()
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rs.sweep()
		case <-rs.done:
			return
		}
	}
}

func (rs *RetentionSweeper) sweep() {
	cutoff := time.Now().UTC().Add(-time.Duration(rs.retentionDays) * 24 * time.Hour)

	rows, err := rs.store.DeleteSearchesBefore(cutoff)
	if err != nil {
		log.Printf("duckdb: retention sweep error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: retention sweep deleted %d saved searches (older than %d days)", rows, rs.retentionDays)
	}
}

// Stop signals the sweeper to stop and waits for it to finish.
func (rs *RetentionSweeper) Stop() {
	rs.stopOnce.Do(func() {
		close(rs.done)
		rs.wg.Wait()
	})
}

// DeleteSearchesBefore removes saved searches last updated before cutoff.
// Stamps are fixed-width UTC RFC3339 strings, so string comparison orders
// them chronologically.
func (s *Store) DeleteSearchesBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM searches WHERE last_updated IS NULL OR last_updated = '' OR last_updated < ?",
		cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete searches before: %w", err)
	}
	return res.RowsAffected()
}
