package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePageSize(t *testing.T) {
	tests := []struct {
		name      string
		height    int
		rowHeight int
		want      int
	}{
		{"exact fit", 20, 2, 10},
		{"floors partial rows", 21, 2, 10},
		{"single line rows", 7, 1, 7},
		{"smaller than a row", 1, 3, 1},
		{"zero height", 0, 1, 1},
		{"negative height", -5, 1, 1},
		{"zero row height", 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePageSize(tt.height, tt.rowHeight))
		})
	}
}

func TestPageSizer_UnresolvedContainerUsesFallback(t *testing.T) {
	var calls []int
	s := NewPageSizer(1, 10, func(n int) { calls = append(calls, n) })

	var r Region
	release := s.Observe(&r)
	defer release()

	assert.Equal(t, 10, s.PageSize())
	assert.Empty(t, calls)
}

func TestPageSizer_ReportsOnlyChanges(t *testing.T) {
	var calls []int
	s := NewPageSizer(2, 10, func(n int) { calls = append(calls, n) })

	var r Region
	release := s.Observe(&r)
	defer release()

	r.Resize(14)
	s.Resized()
	assert.Equal(t, []int{7}, calls)

	r.Resize(15)
	s.Resized()
	assert.Equal(t, []int{7}, calls, "same computed size is not reported again")

	r.Resize(20)
	s.Resized()
	assert.Equal(t, []int{7, 10}, calls)
	assert.Equal(t, 10, s.PageSize())
}

func TestPageSizer_ObserveMeasuresImmediately(t *testing.T) {
	var calls []int
	s := NewPageSizer(1, 10, func(n int) { calls = append(calls, n) })

	r := Region{}
	r.Resize(4)
	release := s.Observe(&r)
	defer release()

	assert.Equal(t, []int{4}, calls)
	assert.True(t, s.Observing())
}

func TestPageSizer_NothingAfterRelease(t *testing.T) {
	var calls []int
	s := NewPageSizer(1, 10, func(n int) { calls = append(calls, n) })

	var r Region
	release := s.Observe(&r)
	release()

	r.Resize(30)
	s.Resized()
	assert.Empty(t, calls)
	assert.False(t, s.Observing())
	assert.Equal(t, 10, s.PageSize())
}

type fixedContainer struct {
	h  int
	ok bool
}

func (f fixedContainer) Height() (int, bool) { return f.h, f.ok }

func TestRegion_Probe(t *testing.T) {
	r := Region{probe: fixedContainer{h: 12, ok: true}}
	h, ok := r.Height()
	assert.True(t, ok)
	assert.Equal(t, 12, h)

	r.Resize(5)
	h, ok = r.Height()
	assert.True(t, ok)
	assert.Equal(t, 5, h, "measured height wins over the probe")

	r = Region{probe: fixedContainer{}}
	_, ok = r.Height()
	assert.False(t, ok)
}

func TestTerminalContainer_NotATerminal(t *testing.T) {
	_, ok := TerminalContainer{FD: -1}.Height()
	assert.False(t, ok)
}
