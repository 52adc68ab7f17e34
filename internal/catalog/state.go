// Package catalog turns PokeAPI resources into the display state of each screen.
package catalog

// Kind discriminates the variants of State.
type Kind int

const (
	// KindLoading means the load has not produced a result yet.
	KindLoading Kind = iota
	// KindLoaded means Data is valid.
	KindLoaded
	// KindFailed means Message describes why no data is available.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindLoaded:
		return "loaded"
	case KindFailed:
		return "failed"
	default:
		return "loading"
	}
}

// State is the display state of one screen: Loading, Loaded(data) or Failed(message).
// Data and Message are never both set.
type State[T any] struct {
	kind    Kind
	data    T
	message string
}

// Loading returns the initial state of a load.
func Loading[T any]() State[T] {
	return State[T]{kind: KindLoading}
}

// Loaded wraps data in the success state.
func Loaded[T any](data T) State[T] {
	return State[T]{kind: KindLoaded, data: data}
}

// Failed returns the error state with a user-facing message.
func Failed[T any](message string) State[T] {
	return State[T]{kind: KindFailed, message: message}
}

func (s State[T]) Kind() Kind      { return s.kind }
func (s State[T]) IsLoading() bool { return s.kind == KindLoading }
func (s State[T]) IsLoaded() bool  { return s.kind == KindLoaded }
func (s State[T]) IsFailed() bool  { return s.kind == KindFailed }

// Data returns the loaded value, or the zero value outside KindLoaded.
func (s State[T]) Data() T { return s.data }

// Message returns the failure message, or "" outside KindFailed.
func (s State[T]) Message() string { return s.message }

// Snapshot is a JSON friendly view of a State.
type Snapshot[T any] struct {
	State   string `json:"state"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Snapshot converts the state for encoding.
func (s State[T]) Snapshot() Snapshot[T] {
	out := Snapshot[T]{State: s.kind.String(), Message: s.message}
	if s.kind == KindLoaded {
		data := s.data
		out.Data = &data
	}
	return out
}
