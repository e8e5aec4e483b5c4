package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const credentialsTable = "credentials"

// credentialRepo implements CredentialRepo on a single-row table.
type credentialRepo struct {
	db *sql.DB
}

func (r *credentialRepo) Save(ctx context.Context, c Credentials) error {
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now()
	}

	query, args := builder().Insert(credentialsTable).
		Columns("id", "token", "user_json", "saved_at").
		Values(1, c.Token, string(c.UserJSON), c.SavedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (r *credentialRepo) Load(ctx context.Context) (Credentials, error) {
	query, args := builder().
		Select("token", "user_json", "saved_at").
		From(entsql.Table(credentialsTable)).
		Where(entsql.EQ("id", 1)).
		Query()

	var (
		c       Credentials
		user    string
		savedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.Token, &user, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}

	c.UserJSON = []byte(user)
	c.SavedAt = time.UnixMilli(savedAt)
	return c, nil
}

func (r *credentialRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(credentialsTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
