package menu

// Embed is a transport-agnostic structured page body. The Discord adapter
// converts it to the wire representation; the menu core never depends on a
// transport library.
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Footer      string
	Fields      []EmbedField
}

// EmbedField is a single name/value pair inside an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// clone returns a deep copy so renders never mutate a caller-owned template.
func (e *Embed) clone() *Embed {
	if e == nil {
		return nil
	}
	dup := *e
	if len(e.Fields) > 0 {
		dup.Fields = make([]EmbedField, len(e.Fields))
		copy(dup.Fields, e.Fields)
	}
	return &dup
}

// SelectOption is one jump target in a page selector. Value is the 0-based
// page index the target navigates to.
type SelectOption struct {
	Label       string
	Description string
	Value       int
}

// Payload is a rendered page handed to a Sink. Exactly one of Content or
// Embed carries the page body. Options is the current selector window, nil
// when the session has no selector attached. ControlsDisabled tells the sink
// to render all navigation controls inert; it is set when a session is
// closed without deleting its surface.
type Payload struct {
	Content          string
	Embed            *Embed
	Options          []SelectOption
	ControlsDisabled bool
}
