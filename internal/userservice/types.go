package userservice

import (
	"database/sql"
	"time"

	"github.com/fsopen/bloglist/internal/common"
)

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour

	// tokenLength is the base32 length of a 16 byte token without padding.
	tokenLength = 26
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m        *DBModel
	mb       common.MessageProducer
	c        *common.Cache
	tokenTTL time.Duration
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int           `json:"id"`
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	Password  Password      `json:"-"`
	CreatedAt time.Time     `json:"-"`
	Version   int           `json:"-"`
	Blogs     []BlogSummary `json:"blogs"`
}

// BlogSummary is the blog as listed under its owner.
type BlogSummary struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

// Password only ever holds the bcrypt hash.
type Password struct {
	hash []byte
}

type Token struct {
	Plain  string    `json:"token"`
	Hash   []byte    `json:"-"`
	UserID int       `json:"-"`
	Expiry time.Time `json:"expiry"`
}

// AuthToken is what a successful login returns to the client.
type AuthToken struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Expiry   time.Time `json:"expiry"`
}

// UserCreatedEvent is published on common.UserCreatedKey after a registration commits.
type UserCreatedEvent struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}
