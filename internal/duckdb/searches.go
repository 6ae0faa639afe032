package duckdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/slabwatch/slabwatch/internal/model"
)

func encodeReport(report *model.PriceReport) (sql.NullString, error) {
	if report == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("duckdb: encode report: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// UpsertSearch creates or replaces the saved search for (userID, cardName).
// A re-search resets the confirmed flag, matching a fresh gather.
func (s *Store) UpsertSearch(userID int64, cardName, region string, report *model.PriceReport, imageURL, updated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	encoded, err := encodeReport(report)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO searches (user_id, card_name, region, last_result, last_image, last_updated, confirmed)
		VALUES (?, ?, ?, ?, ?, ?, false)
		ON CONFLICT (user_id, card_name) DO UPDATE SET
			region = excluded.region,
			last_result = excluded.last_result,
			last_image = excluded.last_image,
			last_updated = excluded.last_updated,
			confirmed = false`,
		userID, cardName, region, encoded, imageURL, updated)
	if err != nil {
		return fmt.Errorf("duckdb: upsert search: %w", err)
	}
	return nil
}

// UpdateSearchResult overwrites the gather outcome of an existing saved search
// and resets its confirmed flag. Returns ErrNotFound when the card is not saved.
func (s *Store) UpdateSearchResult(userID int64, cardName string, report *model.PriceReport, imageURL, updated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	encoded, err := encodeReport(report)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE searches
		SET last_result = ?, last_image = ?, last_updated = ?, confirmed = false
		WHERE user_id = ? AND card_name = ?`,
		encoded, imageURL, updated, userID, cardName)
	if err != nil {
		return fmt.Errorf("duckdb: update search result: %w", err)
	}
	return requireRow(res)
}

// ConfirmImage marks imageURL as the authoritative image for a saved card.
func (s *Store) ConfirmImage(userID int64, cardName, imageURL, updated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE searches
		SET last_image = ?, confirmed = true, last_updated = ?
		WHERE user_id = ? AND card_name = ?`,
		imageURL, updated, userID, cardName)
	if err != nil {
		return fmt.Errorf("duckdb: confirm image: %w", err)
	}
	return requireRow(res)
}

// SearchByCard returns one saved search, or ErrNotFound.
func (s *Store) SearchByCard(userID int64, cardName string) (*model.SavedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT card_name, region, last_result, last_image, last_updated, confirmed
		FROM searches WHERE user_id = ? AND card_name = ?`,
		userID, cardName)

	result, err := scanSavedResult(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("duckdb: search by card: %w", err)
	}
	return result, nil
}

// ListSearches returns all saved searches for a user in insertion order,
// with the expired flag derived from the staleness window.
func (s *Store) ListSearches(userID int64) ([]model.SavedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT card_name, region, last_result, last_image, last_updated, confirmed
		FROM searches WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("duckdb: list searches: %w", err)
	}
	defer rows.Close()

	var results []model.SavedResult
	for rows.Next() {
		result, err := scanSavedResult(rows.Scan)
		if err != nil {
			log.Printf("duckdb scan error (ListSearches): %v", err)
			continue
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}

func scanSavedResult(scan func(dest ...any) error) (*model.SavedResult, error) {
	var (
		result  model.SavedResult
		report  sql.NullString
		image   sql.NullString
		updated sql.NullString
	)
	if err := scan(&result.CardName, &result.Region, &report, &image, &updated, &result.Confirmed); err != nil {
		return nil, err
	}
	result.LastImage = image.String
	result.LastUpdated = updated.String
	if report.Valid && report.String != "" {
		var pr model.PriceReport
		if err := json.Unmarshal([]byte(report.String), &pr); err != nil {
			return nil, fmt.Errorf("decode last_result: %w", err)
		}
		result.LastResult = &pr
	}
	result.Expired = isExpired(result.LastUpdated, time.Now().UTC())
	return &result, nil
}

// isExpired reports whether a last_updated stamp is missing or older than
// the saved-search staleness window.
func isExpired(updated string, now time.Time) bool {
	if updated == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return true
	}
	return now.Sub(t) > model.SavedExpiryDays*24*time.Hour
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("duckdb: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
