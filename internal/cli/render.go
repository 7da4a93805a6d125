package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/weaver/internal/game"
)

// tiles renders ladder rows, either as coloured letter tiles or as the
// plain "WAST [G L G G]" form.
type tiles struct {
	color  bool
	plain  lipgloss.Style
	states map[game.LetterState]lipgloss.Style
}

func newTiles(out io.Writer, color bool) tiles {
	r := lipgloss.NewRenderer(out)
	base := r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF"))
	return tiles{
		color: color,
		plain: base.Background(lipgloss.Color("#3A3A3C")),
		states: map[game.LetterState]lipgloss.Style{
			game.CorrectPosition: base.Background(lipgloss.Color("#6AAA64")),
			game.WrongPosition:   base.Background(lipgloss.Color("#C9B458")),
			game.NotInWord:       base.Background(lipgloss.Color("#787C7E")),
		},
	}
}

// row renders word with its result; res is nil for the start word.
func (t tiles) row(word string, res *game.ValidationResult) string {
	if !t.color {
		if res == nil || res.Len() == 0 {
			return word
		}
		return word + " [" + res.Symbols() + "]"
	}

	var b strings.Builder
	for i := 0; i < len(word); i++ {
		style := t.plain
		if res != nil && i < res.Len() {
			style = t.states[res.State(i)]
		}
		b.WriteString(style.Render(string(word[i])))
	}
	return b.String()
}

// ladder renders path with results[i] scoring path[i+1].
func (t tiles) ladder(path []string, results []game.ValidationResult) []string {
	out := make([]string, 0, len(path))
	for i, w := range path {
		var res *game.ValidationResult
		if i > 0 && i-1 < len(results) {
			res = &results[i-1]
		}
		out = append(out, t.row(w, res))
	}
	return out
}
