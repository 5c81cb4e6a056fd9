package blogservice

// TotalLikes sums the likes of all blogs.
func TotalLikes(blogs []Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}

	return total
}

// FavoriteBlog returns the first blog with the highest like count, or nil for no blogs.
func FavoriteBlog(blogs []Blog) *Favorite {
	if len(blogs) == 0 {
		return nil
	}

	best := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > best.Likes {
			best = b
		}
	}

	return &Favorite{Title: best.Title, Author: best.Author, Likes: best.Likes}
}

// authorGroup accumulates per-author counts in first-appearance order, so
// ties resolve to the author seen first.
type authorGroup struct {
	author string
	blogs  int
	likes  int
}

func groupByAuthor(blogs []Blog) []authorGroup {
	index := make(map[string]int)
	var groups []authorGroup

	for _, b := range blogs {
		i, ok := index[b.Author]
		if !ok {
			i = len(groups)
			index[b.Author] = i
			groups = append(groups, authorGroup{author: b.Author})
		}

		groups[i].blogs++
		groups[i].likes += b.Likes
	}

	return groups
}

// MostBlogs returns the author with the most blogs, or nil for no blogs.
func MostBlogs(blogs []Blog) *AuthorBlogs {
	groups := groupByAuthor(blogs)
	if len(groups) == 0 {
		return nil
	}

	best := groups[0]
	for _, g := range groups[1:] {
		if g.blogs > best.blogs {
			best = g
		}
	}

	return &AuthorBlogs{Author: best.author, Blogs: best.blogs}
}

// MostLikes returns the author whose blogs have the most likes in total, or nil for no blogs.
func MostLikes(blogs []Blog) *AuthorLikes {
	groups := groupByAuthor(blogs)
	if len(groups) == 0 {
		return nil
	}

	best := groups[0]
	for _, g := range groups[1:] {
		if g.likes > best.likes {
			best = g
		}
	}

	return &AuthorLikes{Author: best.author, Likes: best.likes}
}

func computeStats(blogs []Blog) *Stats {
	return &Stats{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: FavoriteBlog(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}
