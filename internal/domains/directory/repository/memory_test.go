package repository

import (
	"context"
	"testing"

	"asset-manager-backend/internal/domains/directory/model"
	"asset-manager-backend/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) Repository {
	t.Helper()
	db := memory.NewDB()
	require.NoError(t, db.Update(func(tb *memory.Tables) error {
		tb.InsertUser(memory.UserRow{ID: 7, Login: "wpierce", Nickname: "bunk", Email: "w@example.com", DisplayName: "Wendell Pierce"})
		tb.InsertUser(memory.UserRow{ID: 8, Login: "alee", Nickname: "annie", Email: "dell.fan@example.com", DisplayName: "Ann Lee"})
		tb.InsertUser(memory.UserRow{ID: 9, Login: "zed", Nickname: "z", Email: "z@example.com", DisplayName: "Zed"})
		return nil
	}))
	return NewMemoryRepository(db)
}

func TestUsersMatching_Columns(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	ids, err := repo.UsersMatching(ctx, "DELL", []string{model.ColumnDisplayName})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)

	ids, err = repo.UsersMatching(ctx, "dell", []string{model.ColumnDisplayName, model.ColumnEmail})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, ids)

	_, err = repo.UsersMatching(ctx, "dell", []string{"password"})
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	repo := seed(t)

	name, found, err := repo.DisplayName(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ann Lee", name)

	_, found, err = repo.DisplayName(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestList_SortedByDisplayName(t *testing.T) {
	repo := seed(t)

	users, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Ann Lee", "Wendell Pierce", "Zed"},
		[]string{users[0].DisplayName, users[1].DisplayName, users[2].DisplayName})

	users, err = repo.List(context.Background(), "bunk")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(7), users[0].ID)
}

func TestMatchClause(t *testing.T) {
	where, args, err := matchClause("a_b", []string{model.ColumnLogin, model.ColumnEmail})
	require.NoError(t, err)
	assert.Equal(t, `(login ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\')`, where)
	assert.Equal(t, []any{`%a\_b%`}, args)
}
