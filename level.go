package layerz

// Level describes the verbosity of a span or event. Lower values are
// more verbose: LevelTrace enables everything, LevelError only the most
// severe.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the conventional upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// combineHints merges two max-level hints. A hint names the most verbose
// level a participant could ever care about, so the combined hint is the
// more verbose of the two, and silence on one side defers to the other.
// Only silence on both sides yields silence.
func combineHints(a Level, aok bool, b Level, bok bool) (Level, bool) {
	switch {
	case aok && bok:
		if b < a {
			return b, true
		}
		return a, true
	case aok:
		return a, true
	case bok:
		return b, true
	default:
		return 0, false
	}
}
