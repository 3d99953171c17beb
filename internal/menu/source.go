package menu

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrConfiguration is returned when a page source is constructed with
// invalid parameters.
var ErrConfiguration = errors.New("invalid page source configuration")

// PageSource partitions content into fixed-size pages. Mutating methods are
// defined on the concrete types; the session only needs to count and render
// pages, and to be told when content changed.
type PageSource interface {
	// PageCount returns the number of pages. Empty content still reports a
	// single empty page so rendering is always safe.
	PageCount() int

	// Render returns the payload for the page at index. The index must be
	// in [0, PageCount()); normalization is the caller's responsibility.
	Render(index int) Payload

	// SetOnChange registers a callback invoked after every content
	// mutation. The owning session uses it to schedule a refresh; sources
	// hold no reference back to their session.
	SetOnChange(fn func())
}

// Config holds page source construction parameters.
//
// Prefix and Suffix apply to string sources only; passing either to
// NewListSource fails with ErrConfiguration. Joiner is ignored by string
// sources, which are sliced directly.
type Config struct {
	// PerPage is the number of items (or characters, for string sources)
	// per page. Must be >= 1.
	PerPage int
	// Joiner joins the items of a page. Defaults to "\n".
	Joiner string
	// Prefix and Suffix wrap every rendered page of a string source.
	Prefix string
	Suffix string
	// UseEmbed renders pages as structured embeds instead of plain text.
	UseEmbed bool
	// Template is the embed all pages are merged into when UseEmbed is set.
	Template *Embed
}

func (c *Config) validate() error {
	if c.PerPage < 1 {
		return fmt.Errorf("%w: per-page must be at least 1, got %d", ErrConfiguration, c.PerPage)
	}
	if c.Joiner == "" {
		c.Joiner = "\n"
	}
	return nil
}

// renderText wraps joined page text into the configured payload shape.
func (c *Config) renderText(text string) Payload {
	if !c.UseEmbed {
		return Payload{Content: text}
	}
	embed := c.Template.clone()
	if embed == nil {
		embed = &Embed{}
	}
	embed.Description = text
	return Payload{Embed: embed}
}

// ListSource paginates an ordered slice of content units. Mutations may
// race with a running session's renders, so all state is mutex-guarded.
type ListSource struct {
	mu       sync.Mutex
	items    []string
	cfg      Config
	onChange func()
}

// NewListSource creates a ListSource over items.
func NewListSource(items []string, cfg Config) (*ListSource, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Prefix != "" || cfg.Suffix != "" {
		return nil, fmt.Errorf(
			"%w: prefix and suffix may only be used with a string source",
			ErrConfiguration,
		)
	}
	return &ListSource{items: items, cfg: cfg}, nil
}

// pages recomputes the partitioning from the current items. Never cached:
// every mutation must be observable on the next call. Callers hold s.mu.
func (s *ListSource) pages() [][]string {
	if len(s.items) == 0 {
		return [][]string{{}}
	}
	var out [][]string
	for start := 0; start < len(s.items); start += s.cfg.PerPage {
		end := min(start+s.cfg.PerPage, len(s.items))
		out = append(out, s.items[start:end])
	}
	return out
}

// Pages returns the current partitioning of items into pages.
func (s *ListSource) Pages() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages()
}

// PageCount returns the number of pages, at least 1.
func (s *ListSource) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages())
}

// Render joins the page's items with the configured joiner.
func (s *ListSource) Render(index int) Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.renderText(strings.Join(s.pages()[index], s.cfg.Joiner))
}

// Append adds items to the end of the source and notifies the session.
func (s *ListSource) Append(items ...string) {
	s.mu.Lock()
	s.items = append(s.items, items...)
	s.mu.Unlock()
	s.notify()
}

// Prepend inserts items at the front of the source and notifies the session.
func (s *ListSource) Prepend(items ...string) {
	s.mu.Lock()
	s.items = append(append([]string{}, items...), s.items...)
	s.mu.Unlock()
	s.notify()
}

// Len returns the total number of items across all pages.
func (s *ListSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// SetOnChange implements PageSource.
func (s *ListSource) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// notify invokes the change callback outside the lock, so the session is
// free to read the source back while handling it.
func (s *ListSource) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// StringSource paginates a single string, PerPage characters at a time.
type StringSource struct {
	mu       sync.Mutex
	text     []rune
	cfg      Config
	onChange func()
}

// NewStringSource creates a StringSource over text. Prefix and Suffix, when
// set, wrap every rendered page.
func NewStringSource(text string, cfg Config) (*StringSource, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &StringSource{text: []rune(text), cfg: cfg}, nil
}

// pages returns each page's text with prefix and suffix applied. Callers
// hold s.mu.
func (s *StringSource) pages() []string {
	if len(s.text) == 0 {
		return []string{s.cfg.Prefix + s.cfg.Suffix}
	}
	var out []string
	for start := 0; start < len(s.text); start += s.cfg.PerPage {
		end := min(start+s.cfg.PerPage, len(s.text))
		out = append(out, s.cfg.Prefix+string(s.text[start:end])+s.cfg.Suffix)
	}
	return out
}

// Pages returns each page's text with prefix and suffix applied.
func (s *StringSource) Pages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages()
}

// PageCount returns the number of pages, at least 1.
func (s *StringSource) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages())
}

// Render returns the page at index. The chunk is already a string, so the
// joiner does not apply.
func (s *StringSource) Render(index int) Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.renderText(s.pages()[index])
}

// Append concatenates text to the end of the source.
func (s *StringSource) Append(text string) {
	s.mu.Lock()
	s.text = append(s.text, []rune(text)...)
	s.mu.Unlock()
	s.notify()
}

// Prepend concatenates text to the front of the source.
func (s *StringSource) Prepend(text string) {
	s.mu.Lock()
	s.text = append([]rune(text), s.text...)
	s.mu.Unlock()
	s.notify()
}

// Len returns the length of the underlying text in characters.
func (s *StringSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.text)
}

// SetOnChange implements PageSource.
func (s *StringSource) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *StringSource) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// EmbedSource paginates pre-built embeds, one per page.
type EmbedSource struct {
	mu       sync.Mutex
	embeds   []*Embed
	onChange func()
}

// NewEmbedSource creates an EmbedSource over embeds.
func NewEmbedSource(embeds []*Embed) *EmbedSource {
	return &EmbedSource{embeds: embeds}
}

// PageCount returns the number of pages, at least 1.
func (s *EmbedSource) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(len(s.embeds), 1)
}

// Render returns a copy of the embed at index, so footer decoration never
// mutates the caller's embeds.
func (s *EmbedSource) Render(index int) Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.embeds) == 0 {
		return Payload{Embed: &Embed{}}
	}
	return Payload{Embed: s.embeds[index].clone()}
}

// Append adds embeds to the end of the source.
func (s *EmbedSource) Append(embeds ...*Embed) {
	s.mu.Lock()
	s.embeds = append(s.embeds, embeds...)
	s.mu.Unlock()
	s.notify()
}

// Prepend inserts embeds at the front of the source.
func (s *EmbedSource) Prepend(embeds ...*Embed) {
	s.mu.Lock()
	s.embeds = append(append([]*Embed{}, embeds...), s.embeds...)
	s.mu.Unlock()
	s.notify()
}

// SetOnChange implements PageSource.
func (s *EmbedSource) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *EmbedSource) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
