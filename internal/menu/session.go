package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a session that
	// has left the idle state.
	ErrAlreadyStarted = errors.New("menu session already started")

	// ErrNotRunning is returned by navigation operations on a session that
	// is not running.
	ErrNotRunning = errors.New("menu session is not running")

	// ErrSurfaceGone marks a sink failure caused by the displayed surface
	// no longer existing (e.g. the message was deleted externally). Sinks
	// wrap it so the session can finalize instead of failing a close.
	ErrSurfaceGone = errors.New("display surface no longer exists")
)

// Handle is an opaque reference to a rendered surface. It is produced and
// interpreted by the Sink; the session only stores it.
type Handle any

// Sink is the display surface a session renders to. Implementations are
// external, possibly-failing dependencies; the session never assumes a
// handle stays valid.
type Sink interface {
	Create(ctx context.Context, p Payload) (Handle, error)
	Update(ctx context.Context, h Handle, p Payload) error
	Delete(ctx context.Context, h Handle) error
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateRunning
	stateClosed
)

// Session drives one interactive paginated surface. It owns its page source
// and optional selector exclusively, tracks the current page index, and
// serializes all navigation against a single mutex. Content mutations
// arriving from unrelated goroutines are coalesced through DispatchUpdate.
type Session struct {
	source   PageSource
	selector *Selector

	mu        sync.Mutex
	state     sessionState
	pageIndex int
	sink      Sink
	handle    Handle

	// single-slot refresh debouncer; extra triggers are dropped, not queued
	refreshing atomic.Bool
}

// NewSession creates an idle session over source. The session registers
// itself as the source's change observer.
func NewSession(source PageSource) *Session {
	s := &Session{source: source}
	source.SetOnChange(s.DispatchUpdate)
	return s
}

// AttachSelector attaches a page selector. Must be called before Start.
func (s *Session) AttachSelector(sel *Selector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector = sel
}

// Selector returns the attached selector, or nil.
func (s *Session) Selector() *Selector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

// PageIndex returns the current page index.
func (s *Session) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// PageCount returns the source's current page count.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.PageCount()
}

// Running reports whether the session has started and not yet closed.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

// Start renders page 0 to sink and transitions the session to running.
// A failed create leaves the session idle and surfaces the error.
func (s *Session) Start(ctx context.Context, sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateIdle {
		return ErrAlreadyStarted
	}

	handle, err := sink.Create(ctx, s.render())
	if err != nil {
		return fmt.Errorf("creating menu surface: %w", err)
	}

	s.sink = sink
	s.handle = handle
	s.state = stateRunning
	return nil
}

// Goto navigates to index and re-renders. Any integer is accepted: the
// index is normalized by true modulo against the current page count, so
// "previous" from page 0 and "next" from the last page wrap around rather
// than fail. Sink errors propagate to the caller.
func (s *Session) Goto(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotoLocked(ctx, index)
}

// Next advances to the following page, wrapping past the end.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotoLocked(ctx, s.pageIndex+1)
}

// Prev moves to the preceding page, wrapping before the start.
func (s *Session) Prev(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotoLocked(ctx, s.pageIndex-1)
}

func (s *Session) gotoLocked(ctx context.Context, index int) error {
	if s.state != stateRunning {
		return ErrNotRunning
	}

	s.pageIndex = normalize(index, s.source.PageCount())
	s.recenterSelector()

	if err := s.sink.Update(ctx, s.handle, s.render()); err != nil {
		return fmt.Errorf("updating menu surface: %w", err)
	}
	return nil
}

// Close terminates the session. When del is true the rendered surface is
// removed entirely; otherwise it is updated with all navigation controls
// disabled, leaving the last content visible. Closing twice is a no-op. A
// surface that is already gone is treated as closed, not as a failure.
func (s *Session) Close(ctx context.Context, del bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateClosed:
		return nil
	case stateIdle:
		return ErrNotRunning
	}

	// The session is finalized regardless of what the sink reports; closed
	// is a terminal state.
	s.state = stateClosed

	var err error
	if del {
		err = s.sink.Delete(ctx, s.handle)
	} else {
		p := s.render()
		p.ControlsDisabled = true
		err = s.sink.Update(ctx, s.handle, p)
	}
	if err != nil && !errors.Is(err, ErrSurfaceGone) {
		return fmt.Errorf("closing menu surface: %w", err)
	}
	return nil
}

// OnTimeout closes the session in place, keeping the last render visible.
// Invoked by the sink's timeout mechanism; errors are logged, not surfaced.
func (s *Session) OnTimeout(ctx context.Context) {
	if err := s.Close(ctx, false); err != nil && !errors.Is(err, ErrNotRunning) {
		slog.Warn("failed to close timed-out menu", "error", err)
	}
}

// DispatchUpdate schedules a background re-render of the current page. At
// most one refresh is ever in flight; triggers arriving while one runs are
// dropped, so a burst of appends collapses into a single redraw.
func (s *Session) DispatchUpdate() {
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.refreshing.Store(false)
		s.refresh()
	}()
}

// refresh redraws the current page after a content mutation. The stored
// index may be out of range if the page count shrank; it is normalized with
// the same modulo rule as Goto.
func (s *Session) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateRunning {
		return
	}

	s.pageIndex = normalize(s.pageIndex, s.source.PageCount())
	s.recenterSelector()

	if err := s.sink.Update(context.Background(), s.handle, s.render()); err != nil {
		if errors.Is(err, ErrSurfaceGone) {
			s.state = stateClosed
			return
		}
		slog.Warn("failed to refresh menu", "error", err)
	}
}

// recenterSelector resizes auto-generated targets to the current page count
// and recomputes the window around the current index.
func (s *Session) recenterSelector() {
	if s.selector == nil {
		return
	}
	s.selector.resize(s.source.PageCount())
	s.selector.Recenter(s.pageIndex)
}

// render produces the payload for the current page, decorated with the page
// footer and the selector window.
func (s *Session) render() Payload {
	p := s.source.Render(s.pageIndex)

	footer := fmt.Sprintf("Page %d/%d", s.pageIndex+1, s.source.PageCount())
	if p.Embed != nil {
		// a template footer is prepended rather than overwritten
		if p.Embed.Footer != "" {
			footer = p.Embed.Footer + " | " + footer
		}
		p.Embed.Footer = footer
	} else {
		p.Content += "\n" + footer
	}

	if s.selector != nil {
		p.Options = s.selector.Window()
	}
	return p
}

// normalize maps any integer onto [0, pageCount) with true modulo, so
// negative indices wrap to the end.
func normalize(index, pageCount int) int {
	return ((index % pageCount) + pageCount) % pageCount
}
