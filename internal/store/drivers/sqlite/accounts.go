package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ecotech-solutions/ecotech/internal/domain"
	"github.com/ecotech-solutions/ecotech/internal/store"
)

type accountsRepo struct {
	db *sql.DB
}

const accountColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) Insert(ctx context.Context, a domain.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		a.Username, a.Email, a.PasswordHash, string(a.Role),
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

func (r *accountsRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) ListAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.Email,
			&a.PasswordHash,
			&a.Role,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Update builds the SET clause from the supplied fields only. Column names
// are fixed strings; every value goes through a bind parameter.
func (r *accountsRepo) Update(ctx context.Context, id int64, fields store.UpdateFields) (domain.Account, error) {
	if fields.IsZero() {
		return r.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if fields.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *fields.Email)
	}
	if fields.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, string(*fields.Role))
	}
	if fields.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *fields.PasswordHash)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Account{}, mapConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Account{}, err
	}
	if affected == 0 {
		return domain.Account{}, store.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *accountsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
