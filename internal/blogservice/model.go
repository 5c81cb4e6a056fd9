package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fsopen/bloglist/internal/common"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
	ErrNotOwner       = errors.New("blog does not exist to the user")
	ErrEditConflict   = errors.New("unable to update the record due to an edit conflict, please try again")
)

const foreignKeyViolation = "23503"

const selectBlogs = `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, b.version,
			u.id, u.username, u.name
		FROM blogs b
		JOIN users u ON b.user_id = u.id`

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == foreignKeyViolation && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner, blog *Blog) error {
	return row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version,
		&blog.User.ID, &blog.User.Username, &blog.User.Name)
}

func (m *BlogModel) insert(ctx context.Context, title, author, url string, likes, userID int) (int, error) {
	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int
	err := m.db.QueryRowContext(ctx, query, title, author, url, likes, userID).Scan(&id)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return 0, ErrUserForeignKey
		default:
			return 0, err
		}
	}

	return id, nil
}

// getBlogById joins the owner so the blog can be returned as is.
func (m *BlogModel) getBlogById(ctx context.Context, id int) (*Blog, error) {
	query := selectBlogs + `
		WHERE b.id = $1`

	var blog Blog
	err := scanBlog(m.db.QueryRowContext(ctx, query, id), &blog)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// updateBlog writes blog back if nobody changed it since it was read.
func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6 AND user_id = $7
		RETURNING version, updated_at`

	args := []any{blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID, blog.Version, blog.User.ID}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.Version, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) deleteBlog(ctx context.Context, blogId, userId int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogId, userId)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, args ...any) ([]Blog, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog
		if err := scanBlog(rows, &blog); err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) getBlogsByUserId(ctx context.Context, userID int) ([]Blog, error) {
	query := selectBlogs + `
		WHERE b.user_id = $1
		ORDER BY b.id`

	return m.queryBlogs(ctx, query, userID)
}

// getAllBlogs returns every blog in insertion order, which the statistics rely on for tie breaking.
func (m *BlogModel) getAllBlogs(ctx context.Context) ([]Blog, error) {
	query := selectBlogs + `
		ORDER BY b.id`

	return m.queryBlogs(ctx, query)
}
