package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/models"
	"github.com/playmatatu/tablegeom/internal/redis"
	"github.com/playmatatu/tablegeom/internal/store"
)

type fakeEditor struct {
	mu    sync.Mutex
	docs  map[string]*authoring.TableRecord
	saves int
	// afterSave runs once a save is stored, before UploadAuthoring returns.
	afterSave func(name, checksum string)
}

func (f *fakeEditor) Authoring(ctx context.Context, name string) (*authoring.TableRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.docs[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func (f *fakeEditor) UploadAuthoring(ctx context.Context, name string, rec *authoring.TableRecord, by string) (*models.TableLayout, error) {
	blob, err := codec.Encode(authoring.Build(rec))
	if err != nil {
		return nil, err
	}
	checksum := store.Checksum(blob)

	f.mu.Lock()
	f.saves++
	f.docs[name] = rec.Clone()
	hook := f.afterSave
	f.mu.Unlock()

	if hook != nil {
		hook(name, checksum)
	}
	return &models.TableLayout{Name: name, Checksum: checksum, UploadedBy: by}, nil
}

type received struct {
	Type     string                 `json:"type"`
	Record   *authoring.TableRecord `json:"record"`
	Checksum string                 `json:"checksum"`
	Message  string                 `json:"message"`
}

func newEditorServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/editor/:name/ws", func(c *gin.Context) {
		c.Set("admin", "designer")
		c.Next()
	}, hub.HandleEditor)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/editor/" + name + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg received
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, typ string, data any) {
	t.Helper()
	raw, _ := json.Marshal(data)
	if err := conn.WriteJSON(WSMessage{Type: typ, Data: raw}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestEditorPromoteAndSave(t *testing.T) {
	ed := &fakeEditor{docs: map[string]*authoring.TableRecord{}}
	hub := NewHub(ed)
	conn := dial(t, newEditorServer(t, hub), "club-table")

	first := read(t, conn)
	if first.Type != "record" || first.Record == nil || first.Record.Name != "club-table" {
		t.Fatalf("initial message=%+v", first)
	}
	want := first.Record.Pockets[0].Rim[0].Points[0]

	send(t, conn, "promote_last", RimRef{Pocket: 0, Rim: 0})
	got := read(t, conn)
	if got.Type != "record" {
		t.Fatalf("after promote: %+v", got)
	}
	seg := got.Record.Pockets[0].Rim[0]
	if seg.End != want || seg.Points != nil {
		t.Errorf("promoted segment=%+v, want end %+v and no points", seg, want)
	}

	send(t, conn, "promote_last", RimRef{Pocket: 0, Rim: 0})
	if got := read(t, conn); got.Type != "nothing_to_promote" {
		t.Errorf("second promote: %+v", got)
	}

	send(t, conn, "promote_first", RimRef{Pocket: 9, Rim: 0})
	if got := read(t, conn); got.Type != "error" {
		t.Errorf("bad pocket index: %+v", got)
	}

	send(t, conn, "save", nil)
	if got := read(t, conn); got.Type != "saved" || got.Checksum == "" {
		t.Errorf("save reply: %+v", got)
	}
	ed.mu.Lock()
	defer ed.mu.Unlock()
	if ed.saves != 1 || ed.docs["club-table"].Pockets[0].Rim[0].End != want {
		t.Errorf("stored document not updated")
	}
}

func TestEditorSharesSessionAcrossClients(t *testing.T) {
	ed := &fakeEditor{docs: map[string]*authoring.TableRecord{"shared": authoring.StandardTable()}}
	hub := NewHub(ed)
	srv := newEditorServer(t, hub)

	a := dial(t, srv, "shared")
	read(t, a)
	b := dial(t, srv, "shared")
	read(t, b)

	if hub.Sessions() != 1 {
		t.Fatalf("sessions=%d, want 1", hub.Sessions())
	}

	send(t, a, "promote_first", RimRef{Pocket: 2, Rim: 0})
	if got := read(t, b); got.Type != "record" || got.Record.Pockets[2].Rim[0].Points != nil {
		t.Errorf("peer did not see the edit: %+v", got)
	}
}

func TestEditorUnknownMessage(t *testing.T) {
	hub := NewHub(&fakeEditor{docs: map[string]*authoring.TableRecord{}})
	conn := dial(t, newEditorServer(t, hub), "x")
	read(t, conn)

	send(t, conn, "fly", nil)
	if got := read(t, conn); got.Type != "error" || got.Message != "Unknown message type" {
		t.Errorf("reply=%+v", got)
	}
}

func TestRelayEventsReloadsStaleSession(t *testing.T) {
	ed := &fakeEditor{docs: map[string]*authoring.TableRecord{"t": authoring.StandardTable()}}
	hub := NewHub(ed)
	conn := dial(t, newEditorServer(t, hub), "t")
	read(t, conn)

	replaced := authoring.StandardTable()
	replaced.Pockets = replaced.Pockets[:2]
	ed.mu.Lock()
	ed.docs["t"] = replaced
	ed.mu.Unlock()

	events := make(chan redis.LayoutEvent, 2)
	events <- redis.LayoutEvent{Type: "layout_updated", Name: "t", Checksum: "other"}
	events <- redis.LayoutEvent{Type: "layout_updated", Name: "unrelated", Checksum: "z"}
	close(events)
	hub.RelayEvents(context.Background(), events)

	got := read(t, conn)
	if got.Type != "record" || len(got.Record.Pockets) != 2 || got.Checksum != "other" {
		t.Errorf("reload=%+v", got)
	}
	if got := read(t, conn); got.Type != "layout_updated" {
		t.Errorf("event=%+v", got)
	}
}

func TestOwnSaveEventDoesNotReloadSession(t *testing.T) {
	ed := &fakeEditor{docs: map[string]*authoring.TableRecord{"t": authoring.StandardTable()}}
	hub := NewHub(ed)
	conn := dial(t, newEditorServer(t, hub), "t")
	read(t, conn)

	// The save's own layout_updated event arrives before UploadAuthoring
	// returns, while the store already holds a different document.
	ed.mu.Lock()
	ed.afterSave = func(name, checksum string) {
		other := authoring.StandardTable()
		other.Pockets = other.Pockets[:1]
		ed.mu.Lock()
		ed.docs[name] = other
		ed.mu.Unlock()

		events := make(chan redis.LayoutEvent, 1)
		events <- redis.LayoutEvent{Type: "layout_updated", Name: name, Checksum: checksum}
		close(events)
		hub.RelayEvents(context.Background(), events)
	}
	ed.mu.Unlock()

	send(t, conn, "save", nil)
	if got := read(t, conn); got.Type != "layout_updated" {
		t.Fatalf("expected the relayed event without a reload, got %+v", got)
	}
	if got := read(t, conn); got.Type != "saved" {
		t.Fatalf("save reply: %+v", got)
	}

	send(t, conn, "snapshot", nil)
	if got := read(t, conn); got.Type != "record" || len(got.Record.Pockets) != 6 {
		t.Errorf("session record was replaced: %+v", got)
	}
}
