package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/playmatatu/tablegeom/internal/database"
	"github.com/playmatatu/tablegeom/internal/migrations"
)

func TestChecksumIsStable(t *testing.T) {
	a := Checksum([]byte("PTBL"))
	if a != Checksum([]byte("PTBL")) {
		t.Errorf("checksum not stable")
	}
	if a == Checksum([]byte("PTBM")) {
		t.Errorf("different blobs share a checksum")
	}
	if a == "" {
		t.Errorf("checksum should not be empty")
	}
}

// openTestRepository needs TEST_DATABASE_URL pointing at a disposable database.
func openTestRepository(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := migrations.RunMigrations(url, "../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := database.Connect(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestRepositorySaveGetListDelete(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()
	name := "store-test-layout"
	repo.Delete(ctx, name)

	first, err := repo.Save(ctx, LayoutUpload{Name: name, Version: 1, Blob: []byte{1, 2, 3}, UploadedBy: "tester"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Authoring.Valid {
		t.Errorf("binary upload should have no authoring document")
	}

	second, err := repo.Save(ctx, LayoutUpload{Name: name, Version: 1, Blob: []byte{4, 5}, Authoring: []byte(`{"name":"x"}`)})
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replacing a layout should keep its id")
	}

	got, err := repo.Get(ctx, name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Checksum != Checksum([]byte{4, 5}) || !got.Authoring.Valid {
		t.Errorf("unexpected row: %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, s := range list {
		if s.Name == name {
			found = s.HasAuthoring
		}
	}
	if !found {
		t.Errorf("layout missing from list or has_authoring false")
	}

	if err := repo.Delete(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, name); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
