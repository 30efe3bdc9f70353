package logtail

import "strings"

// Entry is a log line split into the slog text handler's standard fields.
type Entry struct {
	Raw   string
	Time  string
	Level string
	Msg   string
	Attrs string // everything after msg
}

// Parse splits a slog text line. Lines in any other shape come back with only
// Raw and Msg set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := line
	var ok bool

	if e.Time, rest, ok = field(rest, "time="); !ok {
		e.Msg = line
		return e
	}
	if e.Level, rest, ok = field(rest, "level="); !ok {
		e.Msg = line
		return e
	}
	e.Msg, rest, _ = field(rest, "msg=")
	e.Attrs = strings.TrimSpace(rest)
	return e
}

// field consumes key=value from the front of s. Quoted values may contain
// spaces and escaped quotes.
func field(s, key string) (value, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, key) {
		return "", s, false
	}
	s = s[len(key):]
	if strings.HasPrefix(s, `"`) {
		for i := 1; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '"':
				return strings.ReplaceAll(s[1:i], `\"`, `"`), s[i+1:], true
			}
		}
		return s[1:], "", true
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", true
}
