package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is how far ahead reminders look when no window is given.
const DefaultWindow = "1w"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Window is a look-ahead span. The zero Window is unbounded.
type Window struct {
	Duration time.Duration
	Label    string
}

// Unbounded reports whether the window has no end.
func (w Window) Unbounded() bool {
	return w.Duration <= 0
}

// Contains reports whether t lies between now and the end of the window.
func (w Window) Contains(t, now time.Time) bool {
	if w.Unbounded() {
		return !t.Before(now)
	}
	return Within(t, now, w.Duration)
}

func (w Window) String() string {
	if w.Unbounded() {
		return "all"
	}
	return w.Label
}

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units          = []struct {
		value   time.Duration
		aliases []string
	}{
		{week, []string{"w", "wk", "wks", "week", "weeks"}},
		{day, []string{"d", "day", "days"}},
		{time.Hour, []string{"h", "hr", "hrs", "hour", "hours"}},
		{time.Minute, []string{"m", "min", "mins", "minute", "minutes"}},
	}
)

func unitFor(alias string) (time.Duration, bool) {
	for _, u := range units {
		for _, a := range u.aliases {
			if a == alias {
				return u.value, true
			}
		}
	}
	return 0, false
}

// ParseWindow parses spans like "1w", "3d" or "1w2d6h". Empty input means
// DefaultWindow and "all" means unbounded.
func ParseWindow(input string) (Window, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	switch remaining {
	case "":
		remaining = DefaultWindow
	case "all":
		return Window{}, nil
	}

	total := time.Duration(0)
	for len(strings.TrimSpace(remaining)) > 0 {
		m := segmentPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return Window{}, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Window{}, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := unitFor(m[2])
		if !ok {
			return Window{}, fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return Window{}, fmt.Errorf("window must be greater than zero")
	}
	return Window{Duration: total, Label: FormatWindow(total)}, nil
}

// FormatWindow renders a duration as week/day/hour/minute tokens, dropping
// anything below a minute.
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.aliases[0])
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}
