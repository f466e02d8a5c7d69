package datatable

// Mode says who owns the table state.
type Mode int

const (
	// ModeSelfDriven: the controller owns state over in-memory rows.
	ModeSelfDriven Mode = iota
	// ModeExternal: the caller owns state and supplies one page at a time.
	ModeExternal
)

func (m Mode) String() string {
	if m == ModeExternal {
		return "external"
	}
	return "self-driven"
}

// Source selects the controller mode at construction. It is either External
// or SelfDriven.
type Source[T any] interface {
	mode() Mode
}

// External hands the controller a caller-built table. The caller's functions
// are read on every frame, so the caller can update them between renders.
type External[T any] struct {
	Table *Table[T]

	SearchTerm    func() string
	SetSearchTerm func(string)

	// TotalItems is the authoritative item count reported by the remote source.
	TotalItems func() int

	// OnPageSizeChange receives page sizes derived from the available height.
	OnPageSizeChange func(int)
}

func (External[T]) mode() Mode { return ModeExternal }

// SelfDriven gives the controller the complete row set.
type SelfDriven[T any] struct {
	Rows []T
}

func (SelfDriven[T]) mode() Mode { return ModeSelfDriven }
