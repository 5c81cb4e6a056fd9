package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"time"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newToken(userID int, ttl time.Duration) (*Token, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &Token{
		Plain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}

	token.Hash = hashToken(token.Plain)

	return token, nil
}

func (m *DBModel) insertToken(tx *sql.Tx, ctx context.Context, token *Token) error {
	query := `
		INSERT INTO tokens (hash, user_id, expiry)
		VALUES ($1, $2, $3)`

	_, err := tx.ExecContext(ctx, query, token.Hash, token.UserID, token.Expiry)
	return err
}

func (m *DBModel) deleteExpiredTokens(tx *sql.Tx, ctx context.Context, userID int) error {
	query := `
		DELETE FROM tokens
		WHERE user_id = $1 AND expiry <= $2`

	_, err := tx.ExecContext(ctx, query, userID, time.Now())
	return err
}

func (m *DBModel) deleteToken(ctx context.Context, hash []byte) error {
	query := `
		DELETE FROM tokens
		WHERE hash = $1`

	res, err := m.db.ExecContext(ctx, query, hash)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
