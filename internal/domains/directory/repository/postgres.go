package repository

import (
	"context"
	"errors"
	"fmt"

	"asset-manager-backend/internal/domains/directory/model"
	"asset-manager-backend/internal/shared/utils"
	"asset-manager-backend/pkg/database"

	"github.com/jackc/pgx/v5"
)

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) UsersMatching(ctx context.Context, text string, columns []string) ([]int64, error) {
	where, args, err := matchClause(text, columns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM directory_users WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepository) DisplayName(ctx context.Context, id int64) (string, bool, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT display_name FROM directory_users WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get display name of user %d: %w", id, err)
	}
	return name, true, nil
}

// List - sắp theo display_name cho dropdown chọn owner
func (r *postgresRepository) List(ctx context.Context, search string) ([]model.User, error) {
	sql := `SELECT id, login, nickname, email, display_name FROM directory_users`
	var args []any
	if search != "" {
		where, whereArgs, err := matchClause(search, []string{
			model.ColumnLogin, model.ColumnNickname, model.ColumnEmail, model.ColumnDisplayName,
		})
		if err != nil {
			return nil, err
		}
		sql += ` WHERE ` + where
		args = whereArgs
	}
	sql += ` ORDER BY display_name ASC, id ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Login, &u.Nickname, &u.Email, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// matchClause: "(login ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\' ...)"
func matchClause(text string, columns []string) (string, []any, error) {
	if len(columns) == 0 {
		return "FALSE", nil, nil
	}

	clauses := make([]string, 0, len(columns))
	for _, c := range columns {
		if !model.IsColumn(c) {
			return "", nil, fmt.Errorf("unknown directory column %q", c)
		}
		clauses = append(clauses, c+` ILIKE $1 ESCAPE '\'`)
	}
	pattern := "%" + utils.EscapeLike(text) + "%"
	return "(" + utils.JoinWithOr(clauses) + ")", []any{pattern}, nil
}

