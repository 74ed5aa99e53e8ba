package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// TableLayout is one stored binary layout, plus the authoring document it
// was built from when it was uploaded that way.
type TableLayout struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Version      int            `db:"version" json:"version"`
	Blob         []byte         `db:"blob" json:"-"`
	Authoring    sql.NullString `db:"authoring" json:"-"`
	Checksum     string         `db:"checksum" json:"checksum"`
	SegmentCount int            `db:"segment_count" json:"segment_count"`
	PocketCount  int            `db:"pocket_count" json:"pocket_count"`
	UploadedBy   string         `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// LayoutSummary is the listing row, without the blob.
type LayoutSummary struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Version      int       `db:"version" json:"version"`
	Checksum     string    `db:"checksum" json:"checksum"`
	SegmentCount int       `db:"segment_count" json:"segment_count"`
	PocketCount  int       `db:"pocket_count" json:"pocket_count"`
	HasAuthoring bool      `db:"has_authoring" json:"has_authoring"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AdminAccount may upload layouts and open editor sessions.
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
