package cli

import (
	"strings"
)

// Kind is what a line of input asks for.
type Kind int

const (
	Invalid Kind = iota
	Guess
	Quit
	Reset
	NewGame
	ShowPath
	SetErrors
	SetRandom
	SetPath
	Stats
	Help
)

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Word string // Guess: the word as typed, trimmed
	On   bool   // Set*: requested value
	Raw  string
}

// ParseCommand recognises the fixed commands case-insensitively and
// treats any other single alphabetic token as a guess. Length is not
// checked here.
func ParseCommand(line string) Command {
	raw := strings.TrimSpace(line)
	cmd := Command{Raw: raw}
	f := strings.Fields(strings.ToLower(raw))

	switch {
	case len(f) == 0:
		return cmd
	case len(f) == 1 && f[0] == "quit":
		cmd.Kind = Quit
	case len(f) == 1 && f[0] == "reset":
		cmd.Kind = Reset
	case len(f) == 1 && f[0] == "stats":
		cmd.Kind = Stats
	case len(f) == 1 && (f[0] == "help" || f[0] == "?"):
		cmd.Kind = Help
	case len(f) == 2 && f[0] == "new" && f[1] == "game":
		cmd.Kind = NewGame
	case len(f) == 2 && f[0] == "show" && f[1] == "path":
		cmd.Kind = ShowPath
	case len(f) == 3 && f[0] == "set":
		on, ok := onOff(f[2])
		if !ok {
			return cmd
		}
		switch f[1] {
		case "errors":
			cmd.Kind = SetErrors
		case "random":
			cmd.Kind = SetRandom
		case "path":
			cmd.Kind = SetPath
		default:
			return cmd
		}
		cmd.On = on
	case len(f) == 1 && isAlpha(f[0]):
		cmd.Kind = Guess
		cmd.Word = raw
	}
	return cmd
}

func onOff(s string) (bool, bool) {
	switch s {
	case "on":
		return true, true
	case "off":
		return false, true
	}
	return false, false
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return s != ""
}
