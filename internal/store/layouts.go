package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/tablegeom/internal/models"
)

// ErrNotFound is returned when no layout has the requested name.
var ErrNotFound = errors.New("layout not found")

// LayoutUpload is what gets written for one layout name.
type LayoutUpload struct {
	Name         string
	Version      int
	Blob         []byte
	Authoring    []byte // canonical authoring JSON, nil for binary uploads
	SegmentCount int
	PocketCount  int
	UploadedBy   string
}

// Checksum is the hex xxhash64 of a layout blob, used as its ETag and cache key.
func Checksum(blob []byte) string {
	return strconv.FormatUint(xxhash.Sum64(blob), 16)
}

// Repository persists layouts in postgres.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or replaces the layout stored under up.Name. The id of an
// existing row is kept.
func (r *Repository) Save(ctx context.Context, up LayoutUpload) (*models.TableLayout, error) {
	var authoring sql.NullString
	if up.Authoring != nil {
		authoring = sql.NullString{String: string(up.Authoring), Valid: true}
	}

	var out models.TableLayout
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO table_layouts (id, name, version, blob, authoring, checksum, segment_count, pocket_count, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			version = EXCLUDED.version,
			blob = EXCLUDED.blob,
			authoring = EXCLUDED.authoring,
			checksum = EXCLUDED.checksum,
			segment_count = EXCLUDED.segment_count,
			pocket_count = EXCLUDED.pocket_count,
			uploaded_by = EXCLUDED.uploaded_by,
			updated_at = NOW()
		RETURNING id, name, version, blob, authoring, checksum, segment_count, pocket_count, uploaded_by, created_at, updated_at
	`, uuid.NewString(), up.Name, up.Version, up.Blob, authoring, Checksum(up.Blob),
		up.SegmentCount, up.PocketCount, up.UploadedBy)
	if err != nil {
		return nil, fmt.Errorf("save layout %s: %w", up.Name, err)
	}
	return &out, nil
}

// Get returns the layout stored under name.
func (r *Repository) Get(ctx context.Context, name string) (*models.TableLayout, error) {
	var out models.TableLayout
	err := r.db.GetContext(ctx, &out, `
		SELECT id, name, version, blob, authoring, checksum, segment_count, pocket_count, uploaded_by, created_at, updated_at
		FROM table_layouts WHERE name=$1
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get layout %s: %w", name, err)
	}
	return &out, nil
}

// List returns every stored layout, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]models.LayoutSummary, error) {
	out := []models.LayoutSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, version, checksum, segment_count, pocket_count,
			authoring IS NOT NULL AS has_authoring, updated_at
		FROM table_layouts
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return out, nil
}

// Delete removes the layout stored under name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM table_layouts WHERE name=$1`, name)
	if err != nil {
		return fmt.Errorf("delete layout %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
