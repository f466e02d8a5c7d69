package datatable

import (
	"golang.org/x/term"
)

// ComputePageSize returns how many rows of rowHeight fit in containerHeight.
// It never returns less than 1.
func ComputePageSize(containerHeight, rowHeight int) int {
	if rowHeight < 1 {
		rowHeight = 1
	}
	return max(1, containerHeight/rowHeight)
}

// Container is anything whose height can be measured. ok is false while the
// container is not attached yet.
type Container interface {
	Height() (h int, ok bool)
}

// Region is the part of the layout given to table rows. It becomes resolved
// on the first Resize; before that it defers to an optional probe.
type Region struct {
	height   int
	resolved bool
	probe    Container
}

// Resize records a new measured height.
func (r *Region) Resize(h int) {
	r.height = max(0, h)
	r.resolved = true
}

func (r *Region) Height() (int, bool) {
	if r.resolved {
		return r.height, true
	}
	if r.probe != nil {
		return r.probe.Height()
	}
	return 0, false
}

// TerminalContainer measures the terminal attached to FD, minus Reserved
// lines of surrounding chrome.
type TerminalContainer struct {
	FD       int
	Reserved int
}

func (c TerminalContainer) Height() (int, bool) {
	if !term.IsTerminal(c.FD) {
		return 0, false
	}
	_, h, err := term.GetSize(c.FD)
	if err != nil {
		return 0, false
	}
	return max(0, h-c.Reserved), true
}

// PageSizer derives a page size from a container's height and reports
// changes to onChange. Observation is scoped: Observe acquires it and the
// returned release func ends it; nothing is reported after release.
type PageSizer struct {
	rowHeight int
	fallback  int
	onChange  func(int)

	container Container
	observing bool
	size      int
}

// NewPageSizer creates a sizer. The initial size is fallback.
func NewPageSizer(rowHeight, fallback int, onChange func(int)) *PageSizer {
	if rowHeight < 1 {
		rowHeight = 1
	}
	if fallback < 1 {
		fallback = 1
	}
	return &PageSizer{
		rowHeight: rowHeight,
		fallback:  fallback,
		onChange:  onChange,
		size:      fallback,
	}
}

// Observe starts observing c and measures it once immediately.
func (p *PageSizer) Observe(c Container) (release func()) {
	p.container = c
	p.observing = true
	p.Resized()
	return func() {
		p.observing = false
		p.container = nil
	}
}

// Resized is the observer callback: it re-measures and reports the new size
// only when it differs from the current one.
func (p *PageSizer) Resized() {
	if !p.observing {
		return
	}
	n := p.measure()
	if n == p.size {
		return
	}
	p.size = n
	if p.onChange != nil {
		p.onChange(n)
	}
}

// PageSize returns the last computed size.
func (p *PageSizer) PageSize() int { return p.size }

// Observing reports whether the sizer is between Observe and release.
func (p *PageSizer) Observing() bool { return p.observing }

func (p *PageSizer) measure() int {
	if p.container == nil {
		return p.fallback
	}
	h, ok := p.container.Height()
	if !ok {
		return p.fallback
	}
	return ComputePageSize(h, p.rowHeight)
}
