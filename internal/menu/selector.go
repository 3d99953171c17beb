package menu

import (
	"fmt"
	"slices"
)

// MaxWindow is the largest number of jump targets a discrete picker control
// can display at once.
const MaxWindow = 25

// Selector maintains the bounded window of jump targets shown in a page
// picker. The full target list may be arbitrarily long; the window holds at
// most MaxWindow entries re-centered around the current page. The current
// page's own target is left out of the window, since the picker already
// displays it as the selected entry.
type Selector struct {
	targets []SelectOption
	window  []SelectOption
	// auto selectors regenerate their targets when the page count changes
	auto bool
}

// NewSelector creates a Selector over caller-supplied targets. The window
// starts centered on page 0.
func NewSelector(targets []SelectOption) *Selector {
	s := &Selector{targets: targets}
	s.Recenter(0)
	return s
}

// NewPageSelector creates a Selector with one "Page N" target per page.
// The target list tracks the session's page count as content grows.
func NewPageSelector(pageCount int) *Selector {
	s := &Selector{targets: pageTargets(pageCount), auto: true}
	s.Recenter(0)
	return s
}

func pageTargets(pageCount int) []SelectOption {
	targets := make([]SelectOption, pageCount)
	for i := range targets {
		targets[i] = SelectOption{Label: fmt.Sprintf("Page %d", i+1), Value: i}
	}
	return targets
}

// Targets returns the full target list.
func (s *Selector) Targets() []SelectOption {
	return s.targets
}

// Window returns the currently displayed subset of targets.
func (s *Selector) Window() []SelectOption {
	return s.window
}

// Recenter recomputes the window around cur. The side of cur with fewer
// remaining targets contributes everything it has, and the other side
// absorbs the slack, up to MaxWindow displayed entries in total.
func (s *Selector) Recenter(cur int) {
	n := len(s.targets)
	if n <= 1 {
		s.window = slices.Clone(s.targets)
		return
	}

	lenLeft := cur
	lenRight := n - cur - 1

	leftBudget := 12
	if lenRight < 12 {
		leftBudget = MaxWindow - lenRight
	}
	rightBudget := 12
	if lenLeft < 12 {
		rightBudget = MaxWindow - lenLeft
	}

	start := cur - min(lenLeft, leftBudget)
	end := cur + 1 + min(lenRight, rightBudget)

	s.window = append(
		slices.Clone(s.targets[start:cur]),
		s.targets[cur+1:end]...,
	)
}

// resize regenerates auto-generated targets to match pageCount. Custom
// target lists are left alone.
func (s *Selector) resize(pageCount int) {
	if !s.auto || len(s.targets) == pageCount {
		return
	}
	s.targets = pageTargets(pageCount)
}
