package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playmatatu/tablegeom/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers both unknown accounts and wrong tokens.
var ErrBadCredentials = errors.New("invalid admin credentials")

// Directory looks up admin accounts in postgres.
type Directory struct {
	db *sqlx.DB
}

func NewDirectory(db *sqlx.DB) *Directory {
	return &Directory{db: db}
}

// GetAdminAccount retrieves an admin account by username
func (d *Directory) GetAdminAccount(ctx context.Context, username string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	err := d.db.GetContext(ctx, &admin, `SELECT username, display_name, token_hash, roles, created_at, updated_at FROM admin_accounts WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Authenticate returns the account when plainToken matches its stored hash.
func (d *Directory) Authenticate(ctx context.Context, username, plainToken string) (*models.AdminAccount, error) {
	acct, err := d.GetAdminAccount(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyAdminToken(acct.TokenHash, plainToken) {
		return nil, ErrBadCredentials
	}
	return acct, nil
}

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// CreateAdminAccount creates or replaces an admin account (used for seeding)
func (d *Directory) CreateAdminAccount(ctx context.Context, username, displayName, plainToken string, roles []string) error {
	hashedToken, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash token: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO admin_accounts (username, display_name, token_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			updated_at = NOW()
	`, username, displayName, string(hashedToken), pq.Array(roles))

	return err
}
