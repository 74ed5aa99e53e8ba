package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/models"
	"github.com/playmatatu/tablegeom/internal/redis"
	"github.com/playmatatu/tablegeom/internal/store"
)

// Editor loads and saves authoring documents; *layout.Service implements it.
type Editor interface {
	Authoring(ctx context.Context, name string) (*authoring.TableRecord, error)
	UploadAuthoring(ctx context.Context, name string, rec *authoring.TableRecord, by string) (*models.TableLayout, error)
}

// Hub keeps one editing session per layout name. Every client connected to
// the same name edits the same in-memory record.
type Hub struct {
	editor   Editor
	mu       sync.Mutex
	sessions map[string]*session
}

func NewHub(editor Editor) *Hub {
	return &Hub{editor: editor, sessions: make(map[string]*session)}
}

type session struct {
	name     string
	mu       sync.Mutex
	rec      *authoring.TableRecord
	checksum string
	// pending is the checksum of a save still in flight, so its own
	// layout_updated event is not mistaken for an edit made elsewhere.
	pending string
	clients map[*Client]struct{}
}

// recordChecksum is the checksum the record's encoded layout will be stored
// under, or "" when it cannot be encoded.
func recordChecksum(rec *authoring.TableRecord) string {
	blob, err := codec.Encode(authoring.Build(rec))
	if err != nil {
		return ""
	}
	return store.Checksum(blob)
}

// Message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RimRef addresses one rim segment of one pocket.
type RimRef struct {
	Pocket int `json:"pocket"`
	Rim    int `json:"rim"`
}

type outMessage struct {
	Type     string                 `json:"type"`
	Name     string                 `json:"name,omitempty"`
	Record   *authoring.TableRecord `json:"record,omitempty"`
	Checksum string                 `json:"checksum,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// join attaches c to the session for name, loading the stored authoring
// document on first use. A name with no stored layout starts from the
// standard table.
func (h *Hub) join(ctx context.Context, name string, c *Client) (*session, error) {
	h.mu.Lock()
	s, ok := h.sessions[name]
	h.mu.Unlock()

	if !ok {
		rec, err := h.editor.Authoring(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			rec = authoring.StandardTable()
			rec.Name = name
		} else if err != nil {
			return nil, err
		}
		s = &session{name: name, rec: rec, clients: make(map[*Client]struct{})}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// Another client may have opened or closed the session while we were
	// loading.
	if current, ok := h.sessions[name]; ok {
		s = current
	} else {
		h.sessions[name] = s
		log.Printf("[EDITOR] opened session %s", name)
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	c.sess = s
	s.sendLocked(c, outMessage{Type: "record", Name: name, Record: s.rec, Checksum: s.checksum})
	s.mu.Unlock()
	return s, nil
}

// leave detaches c and closes its send channel. The session is dropped with
// its last client; unsaved edits go with it.
func (h *Hub) leave(c *Client) {
	s := c.sess
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	if len(s.clients) == 0 && h.sessions[s.name] == s {
		delete(h.sessions, s.name)
		log.Printf("[EDITOR] closed session %s", s.name)
	}
}

// sendLocked queues msg for c. s.mu must be held.
func (s *session) sendLocked(c *Client, msg outMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[EDITOR] marshal %s: %v", msg.Type, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[EDITOR] send buffer full for %s in %s, dropping %s", c.admin, s.name, msg.Type)
	}
}

// broadcastLocked queues msg for every client of s. s.mu must be held.
func (s *session) broadcastLocked(msg outMessage) {
	for c := range s.clients {
		s.sendLocked(c, msg)
	}
}

// promote applies one endpoint promotion to the addressed rim segment.
func (s *session) promote(c *Client, ref RimRef, last bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seg, ok := s.rec.RimSegment(ref.Pocket, ref.Rim)
	if !ok {
		s.sendLocked(c, outMessage{Type: "error", Message: "no such rim segment"})
		return
	}

	var changed bool
	if last {
		changed = authoring.PromoteLastToEnd(seg)
	} else {
		changed = authoring.PromoteFirstToStart(seg)
	}
	if !changed {
		s.sendLocked(c, outMessage{Type: "nothing_to_promote"})
		return
	}
	s.broadcastLocked(outMessage{Type: "record", Name: s.name, Record: s.rec})
}

func (s *session) snapshot(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(c, outMessage{Type: "record", Name: s.name, Record: s.rec, Checksum: s.checksum})
}

// save stores a copy of the current record. The upload runs without the
// session lock so other clients keep editing.
func (s *session) save(ctx context.Context, h *Hub, c *Client) {
	s.mu.Lock()
	rec := s.rec.Clone()
	s.pending = recordChecksum(rec)
	s.mu.Unlock()

	saved, err := h.editor.UploadAuthoring(ctx, s.name, rec, c.admin)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = ""
	if err != nil {
		log.Printf("[EDITOR] save %s by %s failed: %v", s.name, c.admin, err)
		s.sendLocked(c, outMessage{Type: "error", Message: err.Error()})
		return
	}
	s.checksum = saved.Checksum
	s.broadcastLocked(outMessage{Type: "saved", Name: s.name, Checksum: saved.Checksum})
}

// RelayEvents forwards layout events from other instances to the matching
// sessions until events is closed. A layout replaced elsewhere is reloaded.
func (h *Hub) RelayEvents(ctx context.Context, events <-chan redis.LayoutEvent) {
	for ev := range events {
		h.mu.Lock()
		s, ok := h.sessions[ev.Name]
		h.mu.Unlock()
		if !ok {
			continue
		}

		var rec *authoring.TableRecord
		if ev.Type == "layout_updated" && ev.Checksum != "" {
			s.mu.Lock()
			stale := ev.Checksum != s.checksum && ev.Checksum != s.pending
			s.mu.Unlock()
			if stale {
				loaded, err := h.editor.Authoring(ctx, ev.Name)
				if err != nil {
					log.Printf("[EDITOR] reload %s: %v", ev.Name, err)
				} else {
					rec = loaded
				}
			}
		}

		s.mu.Lock()
		if rec != nil {
			s.rec = rec
			s.checksum = ev.Checksum
			s.broadcastLocked(outMessage{Type: "record", Name: s.name, Record: s.rec, Checksum: s.checksum})
		}
		s.broadcastLocked(outMessage{Type: ev.Type, Name: ev.Name, Checksum: ev.Checksum})
		s.mu.Unlock()
	}
}

// Sessions reports the number of open editing sessions.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
