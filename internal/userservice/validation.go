package userservice

import (
	"unicode/utf8"

	"github.com/fsopen/bloglist/internal/common"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxNameLength     = 100
	minPasswordLength = 3
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

func validateUsername(v *common.Validator, username string) {
	v.Check(utf8.RuneCountInString(username) >= minUsernameLength, "username", "username must be at least 3 characters long")
	v.Check(v.CheckStringLength(username, 0, maxUsernameLength), "username", "username must not be longer than 50 characters")
}

func validateName(v *common.Validator, name string) {
	v.Check(v.CheckStringLength(name, 0, maxNameLength), "name", "name must not be longer than 100 characters")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(utf8.RuneCountInString(password) >= minPasswordLength, "password", "password must be at least 3 characters long")
	v.Check(len(password) <= maxPasswordBytes, "password", "password must not be longer than 72 bytes")
}

func ValidateToken(v *common.Validator, token string) {
	v.Check(token != "", "token", "must be provided")
	v.Check(len(token) == tokenLength, "token", "invalid token")
}
