package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
	"github.com/abhisek/privcheck/internal/session"
)

// SaveProgress upserts the in-progress assessment of p's kind and mode.
func (s *Store) SaveProgress(ctx context.Context, p session.Progress) error {
	answers, err := json.Marshal(p.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	query, args := builder().Insert(ProgressTable.Name).
		Columns("kind", "mode", "assessment_id", "step", "answers", "updated_at").
		Values(string(p.Kind), string(p.Mode), p.AssessmentID, p.Step, string(answers), p.UpdatedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("kind", "mode"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// LoadProgress returns the saved progress, or nil if there is none.
func (s *Store) LoadProgress(ctx context.Context, kind content.Kind, mode session.Mode) (*session.Progress, error) {
	query, args := builder().Select("assessment_id", "step", "answers", "updated_at").
		From(builder().Table(ProgressTable.Name)).
		Where(entsql.And(
			entsql.EQ("kind", string(kind)),
			entsql.EQ("mode", string(mode)),
		)).
		Query()

	p := session.Progress{Kind: kind, Mode: mode}
	var answers string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&p.AssessmentID, &p.Step, &answers, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &p.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	if p.Answers == nil {
		p.Answers = scoring.Answers{}
	}
	return &p, nil
}

// ClearProgress deletes the saved progress of kind and mode.
func (s *Store) ClearProgress(ctx context.Context, kind content.Kind, mode session.Mode) error {
	query, args := builder().Delete(ProgressTable.Name).
		Where(entsql.And(
			entsql.EQ("kind", string(kind)),
			entsql.EQ("mode", string(mode)),
		)).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}
