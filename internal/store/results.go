package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/session"
)

var resultColumns = []string{"id", "assessment_id", "kind", "mode", "percentage", "rating", "outcome", "completed_at"}

// SaveResult appends a completed assessment to the history.
func (s *Store) SaveResult(ctx context.Context, r session.ResultRecord) error {
	outcome, err := json.Marshal(r.Outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	query, args := builder().Insert(ResultsTable.Name).
		Columns("assessment_id", "kind", "mode", "percentage", "rating", "outcome", "completed_at").
		Values(r.AssessmentID, string(r.Kind), string(r.Mode), r.Outcome.Percentage(), r.Outcome.Rating(), string(outcome), r.CompletedAt.UTC()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// History returns completed assessments, newest first.
func (s *Store) History(ctx context.Context, opts QueryOpts) ([]ResultEntry, error) {
	sel := builder().Select(resultColumns...).
		From(builder().Table(ResultsTable.Name)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", string(opts.Kind)))
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("id", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("completed_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("completed_at", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		e, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// LatestResult returns the most recent result of kind, or nil if none
// exists. An empty kind matches any questionnaire.
func (s *Store) LatestResult(ctx context.Context, kind content.Kind) (*ResultEntry, error) {
	entries, err := s.History(ctx, QueryOpts{Kind: kind, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*ResultEntry, error) {
	var (
		e                   ResultEntry
		kind, mode, outcome string
	)
	if err := row.Scan(&e.ID, &e.AssessmentID, &kind, &mode, &e.Percentage, &e.Rating, &outcome, &e.CompletedAt); err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	e.Kind = content.Kind(kind)
	e.Mode = session.Mode(mode)
	if err := json.Unmarshal([]byte(outcome), &e.Outcome); err != nil {
		return nil, fmt.Errorf("unmarshal outcome %d: %w", e.ID, err)
	}
	return &e, nil
}
