package storagemodels

import "time"

// ChangeKind tells which mutation produced a Change.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeUpdated
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is the notification emitted by an entity list after a mutation
type Change[T any] struct {
	Kind ChangeKind // What happened
	Item T          // The entity as it was added, updated or removed
	List string     // Name of the list that changed
	Time time.Time  // When the mutation was accepted
}
