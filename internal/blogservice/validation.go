package blogservice

import (
	"github.com/fsopen/bloglist/internal/common"
)

const maxFieldLength = 500

func validateBlog(v *common.Validator, title, author, url string, likes int) {
	v.Check(title != "" && url != "", "blog", "title and url are required")
	v.Check(v.CheckStringLength(title, 0, maxFieldLength), "title", "title must not be longer than 500 characters")
	v.Check(v.CheckStringLength(author, 0, maxFieldLength), "author", "author must not be longer than 500 characters")
	v.Check(v.CheckStringLength(url, 0, 2048), "url", "url must not be longer than 2048 characters")
	v.Check(likes >= 0, "likes", "likes must not be negative")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, name+" must be greater than zero")
}
