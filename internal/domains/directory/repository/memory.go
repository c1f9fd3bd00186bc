package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"asset-manager-backend/internal/domains/directory/model"
	"asset-manager-backend/internal/infrastructure/memory"
)

type memoryRepository struct {
	db *memory.DB
}

func NewMemoryRepository(db *memory.DB) Repository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) UsersMatching(_ context.Context, text string, columns []string) ([]int64, error) {
	for _, c := range columns {
		if !model.IsColumn(c) {
			return nil, fmt.Errorf("unknown directory column %q", c)
		}
	}

	ids := []int64{}
	needle := strings.ToLower(text)
	err := r.db.View(func(t *memory.Tables) error {
		for _, row := range t.Users {
			u := toUser(row)
			for _, c := range columns {
				if strings.Contains(strings.ToLower(u.Field(c)), needle) {
					ids = append(ids, u.ID)
					break
				}
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

func (r *memoryRepository) DisplayName(_ context.Context, id int64) (string, bool, error) {
	var (
		name  string
		found bool
	)
	err := r.db.View(func(t *memory.Tables) error {
		if row, ok := t.Users[id]; ok {
			name, found = row.DisplayName, true
		}
		return nil
	})
	return name, found, err
}

func (r *memoryRepository) List(ctx context.Context, search string) ([]model.User, error) {
	var keep map[int64]bool
	if search != "" {
		ids, err := r.UsersMatching(ctx, search, []string{
			model.ColumnLogin, model.ColumnNickname, model.ColumnEmail, model.ColumnDisplayName,
		})
		if err != nil {
			return nil, err
		}
		keep = make(map[int64]bool, len(ids))
		for _, id := range ids {
			keep[id] = true
		}
	}

	users := []model.User{}
	err := r.db.View(func(t *memory.Tables) error {
		for _, row := range t.Users {
			if keep != nil && !keep[row.ID] {
				continue
			}
			users = append(users, toUser(row))
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].ID < users[j].ID
	})
	return users, err
}

func toUser(row *memory.UserRow) model.User {
	return model.User{
		ID:          row.ID,
		Login:       row.Login,
		Nickname:    row.Nickname,
		Email:       row.Email,
		DisplayName: row.DisplayName,
	}
}
