package game

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/weaver/internal/words"
)

func testDict(t *testing.T) *words.Dictionary {
	t.Helper()
	d, err := words.New([]string{
		"EAST", "WAST", "WEST", "VAST", "LAST", "TEST", "BEST", "NEST",
		"PORE", "MORE", "MODE", "RODE", "RUDE", "ZZZZ",
	}, 4)
	require.NoError(t, err)
	return d
}

func TestValidateScenarios(t *testing.T) {
	d := testDict(t)
	cases := []struct {
		guess, target string
		want          string
		win           bool
	}{
		{"WAST", "WEST", "G L G G", false},
		{"WEST", "WEST", "G G G G", true},
		{"TEST", "WEST", "L G G G", false},
		{"EAST", "WEST", "Y L G G", false},
		{"rude", "pore", "Y L L G", false},
	}
	for _, c := range cases {
		t.Run(c.guess+"_"+c.target, func(t *testing.T) {
			res, err := Validate(c.guess, c.target, d, ValidatorConfig{})
			require.NoError(t, err)
			require.Equal(t, c.want, res.Symbols())
			require.Equal(t, c.win, res.Win())
			require.Empty(t, res.Message())
		})
	}
}

func TestValidateRepeatedLetters(t *testing.T) {
	cfg := ValidatorConfig{AllowUnknown: true}

	// one S in the target, two in the guess
	res, err := Validate("SEAS", "EAST", nil, cfg)
	require.NoError(t, err)
	require.Equal(t, "Y Y Y L", res.Symbols())

	// exact match consumes the letter before a misplaced one can
	res, err = Validate("TTTT", "TEST", nil, cfg)
	require.NoError(t, err)
	require.Equal(t, []LetterState{CorrectPosition, NotInWord, NotInWord, CorrectPosition}, res.States())
}

func TestValidateErrors(t *testing.T) {
	d := testDict(t)

	_, err := Validate("WESTS", "WEST", d, ValidatorConfig{})
	require.ErrorIs(t, err, ErrLength)
	require.ErrorIs(t, err, ErrInvalidWord)

	_, err = Validate("QQQQ", "WEST", d, ValidatorConfig{})
	require.ErrorIs(t, err, ErrNotInDictionary)
	require.Equal(t, "this word is not in the dictionary", Reason(err))

	_, err = Validate("WEST", "QQQQ", d, ValidatorConfig{})
	require.ErrorIs(t, err, ErrNotInDictionary)

	_, err = Validate("QQQQ", "WEST", d, ValidatorConfig{AllowUnknown: true})
	require.NoError(t, err)
}

func TestValidateMessages(t *testing.T) {
	d := testDict(t)
	cfg := ValidatorConfig{ShowMessages: true}

	res, err := Validate("WAST", "WEST", d, cfg)
	require.NoError(t, err)
	require.Equal(t, MessageContinue, res.Message())

	res, err = Validate("west", "WEST", d, cfg)
	require.NoError(t, err)
	require.Equal(t, MessageWin, res.Message())
}

func TestValidateIdempotent(t *testing.T) {
	d := testDict(t)
	a, err := Validate("EAST", "WEST", d, ValidatorConfig{})
	require.NoError(t, err)
	b, err := Validate("EAST", "WEST", d, ValidatorConfig{})
	require.NoError(t, err)
	require.Equal(t, a.States(), b.States())
}

// Every exact match is Correct, nothing else is, and no letter is
// credited more often than the target holds it.
func TestScoreGuessMultisetBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const alphabet = "ABEST"
	word := func() string {
		var b strings.Builder
		for range 5 {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		return b.String()
	}

	for range 2000 {
		target, guess := word(), word()
		states := scoreGuess(target, guess)
		credited := map[byte]int{}
		for i, s := range states {
			require.Equal(t, guess[i] == target[i], s == CorrectPosition, "%s vs %s at %d", guess, target, i)
			if s != NotInWord {
				credited[guess[i]]++
			}
		}
		for c, n := range credited {
			require.LessOrEqual(t, n, strings.Count(target, string(c)), "%s vs %s letter %c", guess, target, c)
		}
	}
}

func TestScorePath(t *testing.T) {
	d := testDict(t)
	got := ScorePath("WEST", []string{"EAST", "WAST", "WEST"}, d)
	require.Len(t, got, 2)
	require.Equal(t, "G L G G", got[0].Symbols())
	require.True(t, got[1].Win())

	require.Nil(t, ScorePath("WEST", []string{"EAST"}, d))
	require.Len(t, ScorePath("WEST", []string{"EAST", "QQQQ", "WEST"}, d), 0)
}

func TestResultJSON(t *testing.T) {
	res, err := Validate("WAST", "WEST", testDict(t), ValidatorConfig{ShowMessages: true})
	require.NoError(t, err)
	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{"states":["correct","absent","correct","correct"],"win":false,"message":"Continue"}`, string(b))

	b, err = json.Marshal(ValidationResult{})
	require.NoError(t, err)
	require.JSONEq(t, `{"states":[],"win":false}`, string(b))
}
