package layerz

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/zoobzio/clockz"
)

// Console is an observer that writes human-readable lines for span
// lifecycle and events. It never filters: every callsite is
// InterestAlways, and anything the chain lets through gets printed.
//
// Safe for concurrent use; lines are written atomically.
type Console struct {
	Base
	clock  clockz.Clock
	w      io.Writer
	mu     sync.Mutex
	starts map[SpanID]time.Time
	color  bool
}

var levelColors = map[Level]lipgloss.Color{
	LevelTrace: lipgloss.Color("240"),
	LevelDebug: lipgloss.Color("63"),
	LevelInfo:  lipgloss.Color("42"),
	LevelWarn:  lipgloss.Color("214"),
	LevelError: lipgloss.Color("196"),
}

var (
	spanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// NewConsole creates a console observer writing to w, with color
// enabled and the real clock.
func NewConsole(w io.Writer) *Console {
	return &Console{
		clock:  clockz.RealClock,
		w:      w,
		starts: make(map[SpanID]time.Time),
		color:  true,
	}
}

// WithClock sets the clock used for timestamps and span durations.
// Enables clock injection for deterministic testing.
func (c *Console) WithClock(clock clockz.Clock) *Console {
	c.clock = clock
	return c
}

// WithColor toggles ANSI styling. Disable it for plain writers such as
// files or test buffers.
func (c *Console) WithColor(color bool) *Console {
	c.color = color
	return c
}

// NewSpan prints the span opening with its creation fields and records
// its start time for the duration printed at close.
func (c *Console) NewSpan(attrs *Attributes, id SpanID, _ Context) {
	now := c.clock.Now()

	var b strings.Builder
	c.stamp(&b, now)
	b.WriteString(c.styled(spanStyle, "+ "+attrs.Metadata.Name))
	writeFields(&b, attrs.Fields)
	b.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts[id] = now
	io.WriteString(c.w, b.String()) //nolint:errcheck // Best-effort sink.
}

// OnEvent prints the event with its level, the span scope path from
// root to current, the message, and the fields.
func (c *Console) OnEvent(event *Event, ctx Context) {
	var b strings.Builder
	c.stamp(&b, c.clock.Now())
	b.WriteString(c.badge(event.Metadata.Level))
	b.WriteByte(' ')

	if path := scopePath(ctx); path != "" {
		b.WriteString(c.styled(dimStyle, path+":"))
		b.WriteByte(' ')
	}
	b.WriteString(event.Message)
	writeFields(&b, event.Fields)
	b.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.w, b.String()) //nolint:errcheck // Best-effort sink.
}

// OnClose prints the span closing with its total duration. The span's
// data is still readable here: the registry holds it through the
// closing transition.
func (c *Console) OnClose(id SpanID, ctx Context) {
	now := c.clock.Now()
	name := "span"
	if data, ok := ctx.SpanData(id); ok {
		name = data.Metadata().Name
	}

	var b strings.Builder
	c.stamp(&b, now)
	b.WriteString(c.styled(spanStyle, "- "+name))

	c.mu.Lock()
	defer c.mu.Unlock()
	if start, ok := c.starts[id]; ok {
		fmt.Fprintf(&b, " %s", now.Sub(start))
		delete(c.starts, id)
	}
	b.WriteByte('\n')
	io.WriteString(c.w, b.String()) //nolint:errcheck // Best-effort sink.
}

func (c *Console) stamp(b *strings.Builder, now time.Time) {
	b.WriteString(c.styled(dimStyle, now.Format("15:04:05.000")))
	b.WriteByte(' ')
}

func (c *Console) badge(level Level) string {
	text := fmt.Sprintf("%-5s", level)
	if !c.color {
		return text
	}
	return lipgloss.NewStyle().Foreground(levelColors[level]).Bold(true).Render(text)
}

func (c *Console) styled(style lipgloss.Style, s string) string {
	if !c.color {
		return s
	}
	return style.Render(s)
}

// scopePath renders the current span scope as "root>child>current".
func scopePath(ctx Context) string {
	scope := ctx.Scope()
	if scope.Len() == 0 {
		return ""
	}

	var parts []string
	for {
		data, ok := scope.Next()
		if !ok {
			break
		}
		parts = append(parts, data.Metadata().Name)
	}
	return strings.Join(parts, ">")
}

func writeFields(b *strings.Builder, fields []Field) {
	for _, f := range fields {
		fmt.Fprintf(b, " %s=%v", f.Key, f.Value)
	}
}
