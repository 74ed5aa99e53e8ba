package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/models"
	"github.com/playmatatu/tablegeom/internal/redis"
	"github.com/playmatatu/tablegeom/internal/store"
)

var (
	ErrInvalidName  = errors.New("invalid layout name")
	ErrTooLarge     = errors.New("layout exceeds size limit")
	ErrInvalidRim   = errors.New("layout cannot be encoded")
	ErrNoAuthoring  = errors.New("layout has no authoring document")
	ErrNoRecord     = errors.New("no authoring document supplied")
	validLayoutName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
)

// Store is the persistence the service needs; *store.Repository implements it.
type Store interface {
	Save(ctx context.Context, up store.LayoutUpload) (*models.TableLayout, error)
	Get(ctx context.Context, name string) (*models.TableLayout, error)
	List(ctx context.Context) ([]models.LayoutSummary, error)
	Delete(ctx context.Context, name string) error
}

// Cache is the view cache and event bus; *redis.LayoutCache implements it.
type Cache interface {
	GetView(ctx context.Context, name string) ([]byte, bool)
	SetView(ctx context.Context, name, checksum string, view []byte) error
	Invalidate(ctx context.Context, name string) error
	Publish(ctx context.Context, ev redis.LayoutEvent) error
}

// Service validates, stores and serves table layouts. A nil cache disables
// caching and event publication.
type Service struct {
	store    Store
	cache    Cache
	maxBytes int
}

func NewService(s Store, c Cache, maxBytes int) *Service {
	return &Service{store: s, cache: c, maxBytes: maxBytes}
}

func (s *Service) checkName(name string) error {
	if !validLayoutName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// UploadBinary stores blob after a full decode. Nothing is written when the
// blob is malformed.
func (s *Service) UploadBinary(ctx context.Context, name string, blob []byte, by string) (*models.TableLayout, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	if s.maxBytes > 0 && len(blob) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(blob))
	}

	l, err := codec.Decode(blob)
	if err != nil {
		return nil, err
	}
	version, err := codec.Version(blob)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, store.LayoutUpload{
		Name:         name,
		Version:      int(version),
		Blob:         blob,
		SegmentCount: len(l.Segments),
		PocketCount:  len(l.Pockets),
		UploadedBy:   by,
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, saved)
	return saved, nil
}

// UploadAuthoring builds and encodes rec, then stores both the blob and the
// canonical authoring document.
func (s *Service) UploadAuthoring(ctx context.Context, name string, rec *authoring.TableRecord, by string) (*models.TableLayout, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoRecord
	}

	l := authoring.Build(rec)
	blob, err := codec.Encode(l)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRim, err)
	}

	doc := *rec
	doc.Name = name
	doc.Format = ""
	data, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshal authoring document: %w", err)
	}

	saved, err := s.store.Save(ctx, store.LayoutUpload{
		Name:         name,
		Version:      int(codec.CurrentVersion),
		Blob:         blob,
		Authoring:    data,
		SegmentCount: len(l.Segments),
		PocketCount:  len(l.Pockets),
		UploadedBy:   by,
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, saved)
	return saved, nil
}

func (s *Service) changed(ctx context.Context, saved *models.TableLayout) {
	log.Printf("[LAYOUT] stored %s (checksum=%s segments=%d pockets=%d by=%s)",
		saved.Name, saved.Checksum, saved.SegmentCount, saved.PocketCount, saved.UploadedBy)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, saved.Name); err != nil {
		log.Printf("[CACHE] invalidate %s: %v", saved.Name, err)
	}
	ev := redis.LayoutEvent{Type: "layout_updated", Name: saved.Name, Checksum: saved.Checksum}
	if err := s.cache.Publish(ctx, ev); err != nil {
		log.Printf("[CACHE] publish %s: %v", saved.Name, err)
	}
}

// View returns the JSON view of name, from cache when possible.
func (s *Service) View(ctx context.Context, name string) ([]byte, error) {
	if s.cache != nil {
		if data, ok := s.cache.GetView(ctx, name); ok {
			return data, nil
		}
	}

	row, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	l, err := codec.Decode(row.Blob)
	if err != nil {
		return nil, fmt.Errorf("stored layout %s no longer decodes: %w", name, err)
	}
	data, err := json.Marshal(NewView(row.Name, row.Version, row.Checksum, l))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetView(ctx, name, row.Checksum, data); err != nil {
			log.Printf("[CACHE] set view %s: %v", name, err)
		}
	}
	return data, nil
}

// Get returns the stored row, blob included.
func (s *Service) Get(ctx context.Context, name string) (*models.TableLayout, error) {
	return s.store.Get(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]models.LayoutSummary, error) {
	return s.store.List(ctx)
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	log.Printf("[LAYOUT] deleted %s", name)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, name); err != nil {
			log.Printf("[CACHE] invalidate %s: %v", name, err)
		}
		if err := s.cache.Publish(ctx, redis.LayoutEvent{Type: "layout_deleted", Name: name}); err != nil {
			log.Printf("[CACHE] publish %s: %v", name, err)
		}
	}
	return nil
}

// Authoring returns the authoring document stored with name.
func (s *Service) Authoring(ctx context.Context, name string) (*authoring.TableRecord, error) {
	row, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !row.Authoring.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNoAuthoring, name)
	}
	return authoring.ParseJSON([]byte(row.Authoring.String))
}
