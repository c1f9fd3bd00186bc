package repository

import (
	"context"

	"asset-manager-backend/internal/domains/directory/model"
)

// Repository - read-only access tới user directory
type Repository interface {
	// UsersMatching trả ID của user có ít nhất một cột chứa text (không phân biệt hoa thường)
	UsersMatching(ctx context.Context, text string, columns []string) ([]int64, error)
	// DisplayName - found=false nếu user không tồn tại
	DisplayName(ctx context.Context, id int64) (name string, found bool, err error)
	List(ctx context.Context, search string) ([]model.User, error)
}
