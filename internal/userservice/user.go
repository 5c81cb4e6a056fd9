package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrDuplicateUsername = errors.New("expected `username` to be unique")
	ErrNotFound          = errors.New("user not found")
)

const uniqueViolation = "23505"

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
	}

	return false
}

func (m *DBModel) insertUser(tx *sql.Tx, ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, name, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`

	args := []any{
		u.Username,
		u.Name,
		u.Password.hash,
	}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case isUniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, password, created_at, version
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getUserByToken resolves an unexpired token hash to its user and returns the token expiry alongside.
func (m *DBModel) getUserByToken(ctx context.Context, hash []byte) (*User, time.Time, error) {
	query := `
		SELECT u.id, u.username, u.name, u.created_at, u.version, t.expiry
		FROM users u
		INNER JOIN tokens t ON u.id = t.user_id
		WHERE t.hash = $1 AND t.expiry > $2`

	var (
		u      User
		expiry time.Time
	)

	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt, &u.Version, &expiry)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, time.Time{}, ErrNotFound
		default:
			return nil, time.Time{}, err
		}
	}

	return &u, expiry, nil
}

// getUsers lists every user in id order with the blogs they own.
func (m *DBModel) getUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT u.id, u.username, u.name, u.created_at, u.version,
			b.id, b.title, b.author, b.url, b.likes
		FROM users u
		LEFT JOIN blogs b ON b.user_id = u.id
		ORDER BY u.id, b.id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var (
			u      User
			blogID sql.NullInt64
			title  sql.NullString
			author sql.NullString
			url    sql.NullString
			likes  sql.NullInt64
		)

		err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt, &u.Version, &blogID, &title, &author, &url, &likes)
		if err != nil {
			return nil, err
		}

		if n := len(users); n == 0 || users[n-1].ID != u.ID {
			u.Blogs = []BlogSummary{}
			users = append(users, u)
		}

		if blogID.Valid {
			last := &users[len(users)-1]
			last.Blogs = append(last.Blogs, BlogSummary{
				ID:     int(blogID.Int64),
				Title:  title.String,
				Author: author.String,
				URL:    url.String,
				Likes:  int(likes.Int64),
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
