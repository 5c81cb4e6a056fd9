package blogservice

import (
	"context"
	"database/sql"

	"github.com/fsopen/bloglist/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

// CreateBlog stores a new blog owned by req.UserID and returns it with its owner populated.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	title := sanitizeText(req.Title)
	author := sanitizeText(req.Author)
	url := sanitizeText(req.URL)

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	v := common.NewValidator()
	validateBlog(v, title, author, url, likes)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	id, err := s.m.insert(ctx, title, author, url, likes, req.UserID)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogStats)

	return s.m.getBlogById(ctx, id)
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogById(ctx, id)
}

// ownedBlog loads a blog and checks that userID owns it.
func (s *BlogService) ownedBlog(ctx context.Context, id, userID int) (*Blog, error) {
	blog, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.User.ID != userID {
		return nil, ErrNotOwner
	}

	return blog, nil
}

// UpdateBlog applies the set fields of req. Only the owner may update a blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id, userID int, req *UpdateBlogRequest) (*Blog, error) {
	blog, err := s.ownedBlog(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = sanitizeText(*req.Title)
	}
	if req.Author != nil {
		blog.Author = sanitizeText(*req.Author)
	}
	if req.URL != nil {
		blog.URL = sanitizeText(*req.URL)
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	v := common.NewValidator()
	validateBlog(v, blog.Title, blog.Author, blog.URL, blog.Likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.updateBlog(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyBlogStats)

	return blog, nil
}

// DeleteBlog deletes a blog post. Only the owner may delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, id, userID int) error {
	_, err := s.ownedBlog(ctx, id, userID)
	if err != nil {
		return err
	}

	err = s.m.deleteBlog(ctx, id, userID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogStats)

	return nil
}

// GetBlogsByUser returns the blogs owned by userID, oldest first.
func (s *BlogService) GetBlogsByUser(ctx context.Context, userID int) ([]Blog, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogsByUserId(ctx, userID)
}

// GetStats computes the list statistics over all blogs. The result is cached until the next write.
func (s *BlogService) GetStats(ctx context.Context) (*Stats, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogStats); ok {
		if stats, ok := cached.(*Stats); ok {
			return stats, nil
		}
	}

	blogs, err := s.m.getAllBlogs(ctx)
	if err != nil {
		return nil, err
	}

	stats := computeStats(blogs)
	s.c.Set(common.CacheKeyBlogStats, stats)

	return stats, nil
}
