package layerz

import "testing"

func md(target Target, level Level) *Metadata {
	return &Metadata{Name: "op", Target: target, Level: level, Kind: KindEvent}
}

func TestLevelFilter(t *testing.T) {
	filter := NewLevelFilter(LevelInfo)

	if filter.Enabled(md("app", LevelDebug), Context{}) {
		t.Error("Expected DEBUG to be filtered at INFO")
	}
	if !filter.Enabled(md("app", LevelInfo), Context{}) {
		t.Error("Expected INFO to pass at INFO")
	}
	if !filter.Enabled(md("app", LevelError), Context{}) {
		t.Error("Expected ERROR to pass at INFO")
	}

	// The verdict is cacheable and matches Enabled.
	if got := filter.RegisterCallsite(md("app", LevelDebug)); !got.IsNever() {
		t.Errorf("Expected never for filtered callsite, got %v", got)
	}
	if got := filter.RegisterCallsite(md("app", LevelWarn)); !got.IsAlways() {
		t.Errorf("Expected always for passing callsite, got %v", got)
	}

	if level, ok := filter.MaxLevelHint(); !ok || level != LevelInfo {
		t.Errorf("Expected INFO hint, got %v ok=%v", level, ok)
	}
}

func TestParseEnvFilterDirectives(t *testing.T) {
	filter, err := ParseEnvFilter("app/store=debug, warn")
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}

	if !filter.Enabled(md("app/store", LevelDebug), Context{}) {
		t.Error("Expected DEBUG to pass for the app/store directive")
	}
	if filter.Enabled(md("app/server", LevelInfo), Context{}) {
		t.Error("Expected INFO to be filtered by the warn default")
	}
	if !filter.Enabled(md("app/server", LevelWarn), Context{}) {
		t.Error("Expected WARN to pass the default")
	}

	if level, ok := filter.MaxLevelHint(); !ok || level != LevelDebug {
		t.Errorf("Expected DEBUG hint, got %v ok=%v", level, ok)
	}
}

func TestParseEnvFilterLongestPrefixWins(t *testing.T) {
	filter, err := ParseEnvFilter("app=error,app/store=trace")
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}

	if !filter.Enabled(md("app/store/cache", LevelTrace), Context{}) {
		t.Error("Expected the more specific app/store directive to win")
	}
	if filter.Enabled(md("app/server", LevelWarn), Context{}) {
		t.Error("Expected the app directive to filter WARN")
	}
}

func TestParseEnvFilterEmptyDefaultsToError(t *testing.T) {
	filter, err := ParseEnvFilter("")
	if err != nil {
		t.Fatalf("Expected empty filter to parse, got %v", err)
	}

	if filter.Enabled(md("anything", LevelWarn), Context{}) {
		t.Error("Expected WARN to be filtered by the ERROR default")
	}
	if !filter.Enabled(md("anything", LevelError), Context{}) {
		t.Error("Expected ERROR to pass")
	}
}

func TestParseEnvFilterErrors(t *testing.T) {
	cases := []string{
		"app=verbose",
		"=debug",
		"nonsense-level",
	}
	for _, input := range cases {
		if _, err := ParseEnvFilter(input); err == nil {
			t.Errorf("Expected %q to fail to parse", input)
		}
	}
}

func TestEnvFilterFromEnv(t *testing.T) {
	t.Setenv("LAYERZ_FILTER", "app=info")

	filter, err := EnvFilterFromEnv("LAYERZ_FILTER")
	if err != nil {
		t.Fatalf("Expected env filter to parse, got %v", err)
	}
	if !filter.Enabled(md("app/server", LevelInfo), Context{}) {
		t.Error("Expected INFO to pass the env directive")
	}
}

func TestDynFilterIsNeverCacheable(t *testing.T) {
	allowed := true
	filter := NewDynFilter(func(*Metadata, Context) bool { return allowed })

	if got := filter.RegisterCallsite(md("app", LevelInfo)); !got.IsSometimes() {
		t.Errorf("Expected sometimes, got %v", got)
	}

	if !filter.Enabled(md("app", LevelInfo), Context{}) {
		t.Error("Expected enabled while the predicate allows")
	}
	allowed = false
	if filter.Enabled(md("app", LevelInfo), Context{}) {
		t.Error("Expected the predicate change to take effect per occurrence")
	}
}

func TestParseLevel(t *testing.T) {
	for input, want := range map[string]Level{
		"trace":   LevelTrace,
		"DEBUG":   LevelDebug,
		"Info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(input)
		if err != nil {
			t.Errorf("Expected %q to parse, got %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Expected %q to parse to %v, got %v", input, want, got)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected unknown level to fail")
	}
}
