package login

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uptrace/bun"

	"stocktaker/infrastructure/secret"
	"stocktaker/infrastructure/sqlite"
	"stocktaker/models"
)

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&models.Session{
			ID:           session.ID,
			ShopURL:      session.ShopURL,
			APIKeySealed: session.APIKeySealed,
			ExpiresAt:    session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

// DeleteSessionByToken removes the session row. Ledger rows cascade with it.
func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

// LoadSessionByToken loads a session and opens its sealed API key so callers
// can talk to the shop. Expired sessions are removed and reported as missing.
func LoadSessionByToken(ctx context.Context, db *sqlite.DB, keeper *secret.Keeper, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&session).
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		_ = DeleteSessionByToken(ctx, db, token)
		return models.Session{}, sql.ErrNoRows
	}
	apiKey, err := keeper.Open(session.APIKeySealed)
	if err != nil {
		return models.Session{}, err
	}
	session.APIKey = apiKey
	return session, nil
}
