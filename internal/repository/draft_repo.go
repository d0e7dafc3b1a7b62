package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DraftRepository is the durable onboarding draft store, one row per
// (user, draft key) holding the draft JSON.
type DraftRepository struct {
	db DBTX
}

func NewDraftRepository(db DBTX) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Load(ctx context.Context, userID, key string) ([]byte, bool, error) {
	query := `
		SELECT payload
		FROM onboarding_drafts
		WHERE user_id = $1 AND draft_key = $2
	`
	var payload []byte
	err := r.db.QueryRow(ctx, query, userID, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *DraftRepository) Save(ctx context.Context, userID, key string, payload []byte) error {
	query := `
		INSERT INTO onboarding_drafts (user_id, draft_key, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, draft_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, key, payload)
	return err
}

func (r *DraftRepository) Clear(ctx context.Context, userID, key string) error {
	query := `DELETE FROM onboarding_drafts WHERE user_id = $1 AND draft_key = $2`
	_, err := r.db.Exec(ctx, query, userID, key)
	return err
}
