package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fsopen/bloglist/internal/common"
)

const userCacheTTL = time.Minute

var (
	ErrAuthenticationFailure = errors.New("invalid username or password")
)

// NewUserService wires the user store to the event producer. A tokenTTL of zero means AccessTokenTime.
func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = AccessTokenTime
	}

	return &UserService{
		m:        newUserModel(db),
		mb:       mb,
		c:        c,
		tokenTTL: tokenTTL,
	}
}

// CreateUser registers a new account and publishes a user.created event. The
// insert is rolled back if the event cannot be published.
func (s *UserService) CreateUser(ctx context.Context, username, name, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateName(v, name)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Name:     name,
		Blogs:    []BlogSummary{},
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(tx, ctx, &u)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	event, err := json.Marshal(UserCreatedEvent{Username: u.Username, Name: u.Name})
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	err = s.mb.Publish(ctx, event, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("publish user.created: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a fresh bearer token. Expired
// tokens of the user are purged in the same transaction.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	if username == "" || password == "" {
		return nil, ErrAuthenticationFailure
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := newToken(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	err = s.m.deleteExpiredTokens(tx, ctx, user.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	err = s.m.insertToken(tx, ctx, token)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &AuthToken{
		Token:    token.Plain,
		Username: user.Username,
		Name:     user.Name,
		Expiry:   token.Expiry,
	}, nil
}

// GetUserByAccessToken resolves a bearer token. Hits are cached, but never past the token's own expiry.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByAccessToken(hash)

	if cached, ok := s.c.Get(key); ok {
		if u, ok := cached.(*User); ok {
			return u, nil
		}
	}

	user, expiry, err := s.m.getUserByToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	s.cacheUser(key, user, time.Until(expiry))

	return user, nil
}

// cacheUser caches for at most userCacheTTL and not at all once the token is due.
// go-cache treats a negative duration as no expiry.
func (s *UserService) cacheUser(key string, user *User, untilExpiry time.Duration) {
	if untilExpiry <= 0 {
		return
	}

	s.c.Set(key, user, min(untilExpiry, userCacheTTL))
}

// LogoutUser revokes the presented token.
func (s *UserService) LogoutUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)
	s.c.Delete(common.CacheKeyUserByAccessToken(hash))

	return s.m.deleteToken(ctx, hash)
}

// GetUsers lists all users with their blogs.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.getUsers(ctx)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
