package model

import "errors"

var ErrUserNotFound = errors.New("user not found")

// User - một entry của user directory (hệ thống ngoài, chỉ đọc)
type User struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Searchable columns
const (
	ColumnLogin       = "login"
	ColumnNickname    = "nickname"
	ColumnEmail       = "email"
	ColumnDisplayName = "display_name"
)

// IsColumn - chỉ các cột trong allow-list mới được đưa vào SQL
func IsColumn(c string) bool {
	switch c {
	case ColumnLogin, ColumnNickname, ColumnEmail, ColumnDisplayName:
		return true
	}
	return false
}

// Field trả giá trị của user theo tên cột
func (u User) Field(column string) string {
	switch column {
	case ColumnLogin:
		return u.Login
	case ColumnNickname:
		return u.Nickname
	case ColumnEmail:
		return u.Email
	case ColumnDisplayName:
		return u.DisplayName
	}
	return ""
}
