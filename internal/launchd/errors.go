package launchd

// ErrKind classifies a collection failure.
type ErrKind int

const (
	// ErrKindPath means no candidate source paths were found for a kind.
	ErrKindPath ErrKind = iota + 1
	// ErrKindPlistParse means candidates existed but none decoded.
	ErrKindPlistParse
)

// Error is returned by the Collector when a collection produces nothing.
// Detail names what was being collected; the underlying directory and
// file causes are only reported through the logger.
type Error struct {
	Kind   ErrKind
	Detail string
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrPath       = &Error{Kind: ErrKindPath}
	ErrPlistParse = &Error{Kind: ErrKindPlistParse}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case ErrKindPath:
		msg = "failed to get source files"
	case ErrKindPlistParse:
		msg = "failed to parse plist files"
	default:
		msg = "launchd collection failed"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
