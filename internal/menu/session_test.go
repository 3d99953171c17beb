package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockSink records every sink call for assertions.
type mockSink struct {
	mu      sync.Mutex
	created []Payload
	updated []Payload
	deleted int

	createErr error
	updateErr error
	deleteErr error

	// when non-nil, Update blocks until released
	updateGate chan struct{}
}

func (m *mockSink) Create(_ context.Context, p Payload) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, p)
	return "message-1", nil
}

func (m *mockSink) Update(_ context.Context, h Handle, p Payload) error {
	if m.updateGate != nil {
		<-m.updateGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, p)
	return nil
}

func (m *mockSink) Delete(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted++
	return nil
}

func (m *mockSink) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updated)
}

func (m *mockSink) lastUpdate() Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updated[len(m.updated)-1]
}

func newTestSession(t *testing.T, pages int) (*Session, *mockSink) {
	t.Helper()

	items := make([]string, pages)
	for i := range items {
		items[i] = fmt.Sprintf("item %d", i)
	}
	src, err := NewListSource(items, Config{PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := NewSession(src)
	sink := &mockSink{}
	if err := session.Start(context.Background(), sink); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	return session, sink
}

func TestSession_StartRendersFirstPage(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if !session.Running() {
		t.Error("expected session to be running after start")
	}
	if len(sink.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(sink.created))
	}
	if !strings.Contains(sink.created[0].Content, "item 0") {
		t.Errorf("expected first page content, got %q", sink.created[0].Content)
	}
	if !strings.Contains(sink.created[0].Content, "Page 1/3") {
		t.Errorf("expected page footer, got %q", sink.created[0].Content)
	}
}

func TestSession_StartTwiceFails(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if err := session.Start(context.Background(), sink); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestSession_FailedStartstaysIdle(t *testing.T) {
	src, err := NewListSource([]string{"a"}, Config{PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := NewSession(src)
	sink := &mockSink{createErr: errors.New("boom")}

	if err := session.Start(context.Background(), sink); err == nil {
		t.Fatal("expected start to fail")
	}
	if session.Running() {
		t.Error("expected session to stay idle after failed start")
	}

	// idle again, so a retry against a healthy sink succeeds
	sink.createErr = nil
	if err := session.Start(context.Background(), sink); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestSession_GotoWrapsAround(t *testing.T) {
	tests := []struct {
		pages     int
		requested int
		want      int
	}{
		{3, 0, 0},
		{3, 2, 2},
		{3, 3, 0},
		{3, 5, 2},
		{3, -1, 2},
		{3, -4, 2},
		{1, 7, 0},
		{1, -7, 0},
	}

	for _, tt := range tests {
		session, _ := newTestSession(t, tt.pages)
		if err := session.Goto(context.Background(), tt.requested); err != nil {
			t.Fatalf("pages=%d goto(%d): unexpected error: %v", tt.pages, tt.requested, err)
		}
		if got := session.PageIndex(); got != tt.want {
			t.Errorf("pages=%d goto(%d): landed on %d, expected %d",
				tt.pages, tt.requested, got, tt.want)
		}
	}
}

func TestSession_NextAndPrevDelegateToGoto(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if err := session.Prev(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.PageIndex() != 2 {
		t.Errorf("prev from page 0 should wrap to 2, got %d", session.PageIndex())
	}

	if err := session.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.PageIndex() != 0 {
		t.Errorf("next from last page should wrap to 0, got %d", session.PageIndex())
	}

	if sink.updateCount() != 2 {
		t.Errorf("expected 2 update calls, got %d", sink.updateCount())
	}
}

func TestSession_GotoBeforeStartFails(t *testing.T) {
	src, err := NewListSource([]string{"a"}, Config{PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := NewSession(src)

	if err := session.Goto(context.Background(), 1); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestSession_GotoSurfacesSinkError(t *testing.T) {
	session, sink := newTestSession(t, 3)
	sink.updateErr = errors.New("rate limited")

	if err := session.Goto(context.Background(), 1); err == nil {
		t.Error("expected goto to surface the sink error")
	}
}

func TestSession_GotoRecentersSelector(t *testing.T) {
	items := make([]string, 40)
	for i := range items {
		items[i] = "x"
	}
	src, err := NewListSource(items, Config{PerPage: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := NewSession(src)
	session.AttachSelector(NewPageSelector(src.PageCount()))
	sink := &mockSink{}
	if err := session.Start(context.Background(), sink); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	if err := session.Goto(context.Background(), 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	options := sink.lastUpdate().Options
	if len(options) == 0 || len(options) > MaxWindow {
		t.Fatalf("expected a bounded non-empty window, got %d options", len(options))
	}
	for _, opt := range options {
		if opt.Value == 20 {
			t.Errorf("window should exclude the current page target")
		}
		if opt.Value < 8 || opt.Value > 32 {
			t.Errorf("window option %d is not centered around page 20", opt.Value)
		}
	}
}

func TestSession_CloseDeletesSurface(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if err := session.Close(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.deleted != 1 {
		t.Errorf("expected 1 delete call, got %d", sink.deleted)
	}
	if session.Running() {
		t.Error("expected session to stop running")
	}
}

func TestSession_CloseWithoutDeleteDisablesControls(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if err := session.Close(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.deleted != 0 {
		t.Errorf("expected no delete calls, got %d", sink.deleted)
	}
	if !sink.lastUpdate().ControlsDisabled {
		t.Error("expected final update to disable controls")
	}
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	session, sink := newTestSession(t, 3)

	if err := session.Close(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.Close(context.Background(), true); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if sink.deleted != 1 {
		t.Errorf("expected exactly 1 delete call, got %d", sink.deleted)
	}
}

func TestSession_CloseSwallowsGoneSurface(t *testing.T) {
	session, sink := newTestSession(t, 3)
	sink.deleteErr = fmt.Errorf("deleting message: %w", ErrSurfaceGone)

	if err := session.Close(context.Background(), true); err != nil {
		t.Errorf("expected a gone surface to be treated as closed, got %v", err)
	}
	if session.Running() {
		t.Error("expected session to finalize despite the gone surface")
	}
}

func TestSession_GotoAfterCloseFails(t *testing.T) {
	session, _ := newTestSession(t, 3)

	if err := session.Close(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.Goto(context.Background(), 1); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestSession_OnTimeoutKeepsContent(t *testing.T) {
	session, sink := newTestSession(t, 3)

	session.OnTimeout(context.Background())

	if sink.deleted != 0 {
		t.Errorf("timeout must never delete, got %d delete calls", sink.deleted)
	}
	if !sink.lastUpdate().ControlsDisabled {
		t.Error("expected timeout close to disable controls")
	}
}

func TestSession_AppendTriggersRefresh(t *testing.T) {
	session, sink := newTestSession(t, 2)

	src := session.source.(*ListSource)
	src.Append("item 2")

	waitFor(t, func() bool { return sink.updateCount() == 1 })
	if !strings.Contains(sink.lastUpdate().Content, "Page 1/3") {
		t.Errorf("expected refreshed footer, got %q", sink.lastUpdate().Content)
	}
}

func TestSession_DispatchUpdateDropsOverlappingTriggers(t *testing.T) {
	session, sink := newTestSession(t, 2)
	sink.updateGate = make(chan struct{})

	// First trigger acquires the refresh slot and blocks inside the sink.
	session.DispatchUpdate()
	for i := 0; i < 10; i++ {
		session.DispatchUpdate()
	}
	close(sink.updateGate)

	waitFor(t, func() bool { return sink.updateCount() >= 1 })
	// Give any stray goroutines a chance to run before counting.
	time.Sleep(20 * time.Millisecond)
	if got := sink.updateCount(); got != 1 {
		t.Errorf("expected overlapping triggers to be dropped, got %d updates", got)
	}
}

func TestSession_RefreshClampsShrunkenIndex(t *testing.T) {
	session, sink := newTestSession(t, 5)

	if err := session.Goto(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Shrink the content under the session, then refresh.
	src := session.source.(*ListSource)
	src.items = src.items[:2]
	session.DispatchUpdate()

	waitFor(t, func() bool { return sink.updateCount() >= 2 })
	if got := session.PageIndex(); got != 0 {
		t.Errorf("expected index 4 to clamp to %d in a 2-page source, got %d", 0, got)
	}
}

func TestSession_AppendRacingNavigationIsSafe(t *testing.T) {
	session, _ := newTestSession(t, 2)
	src := session.source.(*ListSource)

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			src.Append("late item")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := session.Next(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if got := src.Len(); got != 2+rounds {
		t.Errorf("expected %d items after concurrent appends, got %d", 2+rounds, got)
	}
	if !session.Running() {
		t.Error("expected session to survive concurrent mutation")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
