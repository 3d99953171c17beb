// Package discordui renders menu sessions as Discord messages and routes
// component interactions back to them.
package discordui

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/kaedebot/kaede/internal/menu"
	"github.com/kaedebot/kaede/internal/timer"
)

const sweepInterval = time.Minute

// Manager tracks every live menu session, dispatches button and select
// interactions to the right one, and times out sessions that have been
// idle for longer than the configured timeout.
type Manager struct {
	rest    *discordgo.Session
	timeout time.Duration

	mu   sync.Mutex
	open map[string]*liveMenu

	sweep *timer.PeriodicTimer
}

type liveMenu struct {
	session *menu.Session
	ownerID string
	lastUse time.Time
}

// NewManager creates a Manager and starts its idle-timeout sweep.
func NewManager(rest *discordgo.Session, timeout time.Duration) *Manager {
	m := &Manager{
		rest:    rest,
		timeout: timeout,
		open:    make(map[string]*liveMenu),
	}
	m.sweep = timer.New(m.sweepIdle, sweepInterval)
	m.sweep.Start()
	return m
}

// Open starts session as the response to interaction and registers it for
// component routing. Only ownerID may navigate the resulting menu.
func (m *Manager) Open(
	ctx context.Context,
	session *menu.Session,
	interaction *discordgo.Interaction,
	ownerID string,
) error {
	token := uuid.NewString()
	sink := &interactionSink{rest: m.rest, interaction: interaction, token: token}

	if err := session.Start(ctx, sink); err != nil {
		return err
	}

	m.mu.Lock()
	m.open[token] = &liveMenu{session: session, ownerID: ownerID, lastUse: time.Now()}
	m.mu.Unlock()

	slog.Debug("opened menu", "token", token, "owner", ownerID)
	return nil
}

// Count returns the number of live menus.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// HandleInteraction routes a component interaction to its menu session.
// Interactions from components that are not menu controls are ignored.
func (m *Manager) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	data := i.MessageComponentData()
	token, action, ok := parseCustomID(data.CustomID)
	if !ok {
		return
	}

	m.mu.Lock()
	live, ok := m.open[token]
	if ok {
		live.lastUse = time.Now()
	}
	m.mu.Unlock()
	if !ok {
		// stale controls on a message that outlived its session
		m.acknowledge(s, i)
		return
	}

	if interactionUserID(i) != live.ownerID {
		m.acknowledge(s, i)
		return
	}

	// The session edits the message through the sink, so the component
	// interaction itself only needs a deferred acknowledgement.
	m.acknowledge(s, i)

	ctx := context.Background()
	var err error
	switch action {
	case actionPrev:
		err = live.session.Prev(ctx)
	case actionNext:
		err = live.session.Next(ctx)
	case actionClose:
		err = live.session.Close(ctx, true)
		m.forget(token)
	case actionSelect:
		if len(data.Values) == 0 {
			return
		}
		var index int
		index, err = strconv.Atoi(data.Values[0])
		if err == nil {
			err = live.session.Goto(ctx, index)
		}
	}
	if err != nil {
		slog.Error("failed to handle menu interaction", "action", action, "error", err)
	}
}

// Close tears down the sweep loop and disables every live menu.
func (m *Manager) Close() {
	m.sweep.Cancel()
	m.sweep.Wait()

	m.mu.Lock()
	live := make([]*liveMenu, 0, len(m.open))
	for _, l := range m.open {
		live = append(live, l)
	}
	m.open = make(map[string]*liveMenu)
	m.mu.Unlock()

	ctx := context.Background()
	for _, l := range live {
		l.session.OnTimeout(ctx)
	}
}

// sweepIdle closes menus whose last interaction is older than the timeout,
// leaving their final content visible.
func (m *Manager) sweepIdle(ctx context.Context) error {
	cutoff := time.Now().Add(-m.timeout)

	m.mu.Lock()
	var expired []*liveMenu
	for token, l := range m.open {
		if l.lastUse.Before(cutoff) {
			expired = append(expired, l)
			delete(m.open, token)
		}
	}
	m.mu.Unlock()

	for _, l := range expired {
		l.session.OnTimeout(ctx)
	}
	if len(expired) > 0 {
		slog.Debug("timed out idle menus", "count", len(expired))
	}
	return nil
}

func (m *Manager) forget(token string) {
	m.mu.Lock()
	delete(m.open, token)
	m.mu.Unlock()
}

func (m *Manager) acknowledge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		slog.Warn("failed to acknowledge component interaction", "error", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
