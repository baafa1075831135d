package layerz

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// LevelFilter is an observer that disables every span and event more
// verbose than its level, for the entire chain it is composed into.
type LevelFilter struct {
	Base
	level Level
}

// NewLevelFilter builds a filter that keeps level and anything more
// severe: NewLevelFilter(LevelInfo) keeps INFO, WARN, and ERROR.
func NewLevelFilter(level Level) *LevelFilter {
	return &LevelFilter{level: level}
}

// RegisterCallsite gives a cacheable verdict: the decision depends only
// on the callsite's level.
func (f *LevelFilter) RegisterCallsite(md *Metadata) Interest {
	return InterestFrom(f, md)
}

// Enabled keeps callsites at the filter's level or above.
func (f *LevelFilter) Enabled(md *Metadata, _ Context) bool {
	return md.Level >= f.level
}

// MaxLevelHint reports the filter's level as the most verbose level of
// interest.
func (f *LevelFilter) MaxLevelHint() (Level, bool) {
	return f.level, true
}

// EnvFilter filters by per-target directives of the form
// "target=level", comma-separated, with an optional bare "level"
// setting the default for unmatched targets:
//
//	"info"                         everything at INFO and above
//	"myapp/store=debug,warn"      DEBUG+ for myapp/store, WARN+ elsewhere
//
// Targets match by prefix; the longest matching directive wins. With no
// default directive, unmatched targets default to ERROR.
type EnvFilter struct {
	Base
	directives []directive
	def        Level
}

type directive struct {
	target string
	level  Level
}

// ParseEnvFilter parses a directive string. An empty string yields the
// default-only filter (ERROR and above everywhere).
func ParseEnvFilter(s string) (*EnvFilter, error) {
	f := &EnvFilter{def: LevelError}

	for _, raw := range strings.Split(s, ",") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}

		target, levelName, found := strings.Cut(part, "=")
		if !found {
			level, err := ParseLevel(part)
			if err != nil {
				return nil, fmt.Errorf("invalid filter directive %q: %w", part, err)
			}
			f.def = level
			continue
		}

		target = strings.TrimSpace(target)
		if target == "" {
			return nil, fmt.Errorf("invalid filter directive %q: empty target", part)
		}
		level, err := ParseLevel(strings.TrimSpace(levelName))
		if err != nil {
			return nil, fmt.Errorf("invalid filter directive %q: %w", part, err)
		}
		f.directives = append(f.directives, directive{target: target, level: level})
	}

	// Longest prefix first, so the most specific directive wins.
	sort.SliceStable(f.directives, func(i, j int) bool {
		return len(f.directives[i].target) > len(f.directives[j].target)
	})
	return f, nil
}

// EnvFilterFromEnv parses the directive string in the named environment
// variable. An unset or empty variable yields the default-only filter.
func EnvFilterFromEnv(key string) (*EnvFilter, error) {
	return ParseEnvFilter(os.Getenv(key))
}

// RegisterCallsite gives a cacheable verdict: directives are fixed at
// construction.
func (f *EnvFilter) RegisterCallsite(md *Metadata) Interest {
	return InterestFrom(f, md)
}

// Enabled applies the longest matching directive for the callsite's
// target, or the default level if none matches.
func (f *EnvFilter) Enabled(md *Metadata, _ Context) bool {
	for _, d := range f.directives {
		if strings.HasPrefix(md.Target, d.target) {
			return md.Level >= d.level
		}
	}
	return md.Level >= f.def
}

// MaxLevelHint reports the most verbose level any directive could
// enable.
func (f *EnvFilter) MaxLevelHint() (Level, bool) {
	hint := f.def
	for _, d := range f.directives {
		if d.level < hint {
			hint = d.level
		}
	}
	return hint, true
}

// DynFilter is an observer whose filtering decision is an arbitrary
// function of the metadata and the live context. Because the decision
// can change between occurrences, it registers every callsite as
// InterestSometimes so the dispatch layer never caches it away.
type DynFilter struct {
	Base
	fn FilterFunc
}

// FilterFunc decides whether a span or event is enabled for the whole
// chain.
type FilterFunc func(md *Metadata, ctx Context) bool

// NewDynFilter builds a filter around fn.
func NewDynFilter(fn FilterFunc) *DynFilter {
	return &DynFilter{fn: fn}
}

// RegisterCallsite always returns InterestSometimes: the decision is
// runtime state, never cacheable.
func (f *DynFilter) RegisterCallsite(*Metadata) Interest {
	return InterestSometimes
}

// Enabled applies the filter function.
func (f *DynFilter) Enabled(md *Metadata, ctx Context) bool {
	return f.fn(md, ctx)
}

// ParseLevel parses a level name, case-insensitively: "trace", "debug",
// "info", "warn" (or "warning"), "error".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}
