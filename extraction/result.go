package extraction

// Reasons attached to a Result without a value.
const (
	ReasonSentinel   = "sentinel"
	ReasonUnparsable = "unparsable response"
	ReasonEmpty      = "empty payload"
)

// Result holds either a value or the reason no value was produced.
// The zero Result carries no value and an empty reason.
type Result[T any] struct {
	value  T
	ok     bool
	reason string
}

// Ok wraps a successfully extracted value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// NoSignal returns a Result without a value.
func NoSignal[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// Value returns the value and whether one is present.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Reason explains why no value is present. It is empty for Ok results.
func (r Result[T]) Reason() string {
	if r.ok {
		return ""
	}
	if r.reason == "" {
		return "no result"
	}
	return r.reason
}
