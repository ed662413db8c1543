package pool

// DispatchState selects the behavior of Create. It replaces a hot-swapped
// function reference with an explicit two-state enum updated only at the
// empty/non-empty transitions of the free list.
type DispatchState uint8

const (
	// StateAllocate means the free list is empty and Create must fabricate a
	// new object.
	StateAllocate DispatchState = iota
	// StateRenew means recycled objects are available and Create renews the
	// most recently destroyed one.
	StateRenew
)

func (s DispatchState) String() string {
	switch s {
	case StateAllocate:
		return "allocate"
	case StateRenew:
		return "renew"
	default:
		return "unknown"
	}
}
