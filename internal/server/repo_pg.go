package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new assessment.
func (r *PGRepo) Create(ctx context.Context, a Assessment) error {
	const query = `
INSERT INTO assessments (id, owner, kind, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.Owner, string(a.Kind), a.CreatedAt)
	return err
}

// Get loads an assessment with its answers.
func (r *PGRepo) Get(ctx context.Context, id string) (Assessment, error) {
	const query = `
SELECT id, owner, kind, outcome, created_at, completed_at
FROM assessments
WHERE id = $1`
	var (
		a           Assessment
		kind        string
		outcome     sql.NullString
		completedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Owner, &kind, &outcome, &a.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}
	a.Kind = content.Kind(kind)
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if outcome.Valid && outcome.String != "" {
		var out scoring.Outcome
		if err := json.Unmarshal([]byte(outcome.String), &out); err != nil {
			return Assessment{}, fmt.Errorf("decode outcome: %w", err)
		}
		a.Outcome = &out
	}

	answers, err := loadAnswers(ctx, r.DB, id)
	if err != nil {
		return Assessment{}, err
	}
	a.Answers = answers
	return a, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadAnswers(ctx context.Context, q querier, id string) (scoring.Answers, error) {
	const query = `
SELECT question_id, value, score, level
FROM assessment_answers
WHERE assessment_id = $1
ORDER BY question_id`
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := scoring.Answers{}
	for rows.Next() {
		var a scoring.Answer
		if err := rows.Scan(&a.QuestionID, &a.Value, &a.Score, &a.Level); err != nil {
			return nil, err
		}
		answers[a.QuestionID] = a
	}
	return answers, rows.Err()
}

// SaveAnswer upserts an answer while the assessment is open.
func (r *PGRepo) SaveAnswer(ctx context.Context, id string, a scoring.Answer, at time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var completedAt sql.NullTime
	err = tx.QueryRowContext(ctx, `SELECT completed_at FROM assessments WHERE id = $1 FOR UPDATE`, id).Scan(&completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if completedAt.Valid {
		return ErrCompleted
	}

	const upsert = `
INSERT INTO assessment_answers (assessment_id, question_id, value, score, level, answered_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (assessment_id, question_id)
DO UPDATE SET value = EXCLUDED.value, score = EXCLUDED.score, level = EXCLUDED.level, answered_at = EXCLUDED.answered_at`
	if _, err := tx.ExecContext(ctx, upsert, id, a.QuestionID, a.Value, a.Score, a.Level, at); err != nil {
		return err
	}
	return tx.Commit()
}

// Complete locks the assessment row, scores its answers and stores the
// outcome in one transaction. SaveAnswer takes the same row lock, so a
// concurrent answer either lands before scoring or sees ErrCompleted.
func (r *PGRepo) Complete(ctx context.Context, id string, at time.Time, score Scorer) (Assessment, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Assessment{}, err
	}
	defer tx.Rollback()

	var (
		a           = Assessment{ID: id}
		kind        string
		completedAt sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		`SELECT owner, kind, created_at, completed_at FROM assessments WHERE id = $1 FOR UPDATE`, id).
		Scan(&a.Owner, &kind, &a.CreatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}
	if completedAt.Valid {
		return Assessment{}, ErrCompleted
	}
	a.Kind = content.Kind(kind)

	if a.Answers, err = loadAnswers(ctx, tx, id); err != nil {
		return Assessment{}, err
	}
	out := score(a.Kind, a.Answers)
	payload, err := json.Marshal(out)
	if err != nil {
		return Assessment{}, fmt.Errorf("encode outcome: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE assessments SET outcome = $2, completed_at = $3 WHERE id = $1`, id, string(payload), at); err != nil {
		return Assessment{}, err
	}
	if err := tx.Commit(); err != nil {
		return Assessment{}, err
	}
	a.Outcome = &out
	a.CompletedAt = &at
	return a, nil
}
