package slug

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tourhub/tourhub/internal/shared"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Jöhn Dóe!  ":            "john-doe",
		"Test Attraction":          "test-attraction",
		"São Paulo -- Centro":      "sao-paulo-centro",
		"---Río   de la Plata---":  "rio-de-la-plata",
		"Hotel 5*":                 "hotel-5",
		"Crème brûlée & café":      "creme-brulee-cafe",
		"ALREADY-a-slug":           "already-a-slug",
		"!!!":                      "",
		"":                         "",
		"Tab\tand\nnewline":        "tab-and-newline",
		"Ñandú":                    "nandu",
		"under_score.dot/slash":    "under-score-dot-slash",
		"  multiple     spaces   ": "multiple-spaces",
		"Øresund":                  "oresund",
		"Łódź":                     "lodz",
		"Straße":                   "strasse",
		"Ærøskøbing":               "aeroskobing",
		"Þingvellir":               "thingvellir",
		"Œuvre Đakovo":             "oeuvre-dakovo",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestGenerateRejectsEmptyNames(t *testing.T) {
	for _, raw := range []string{"", "   ", "?!"} {
		_, err := Generate(context.Background(), raw, nil)
		require.ErrorIs(t, err, shared.ErrValidation, "raw=%q", raw)
	}
}

func TestGenerateAppendsIncrementingSuffix(t *testing.T) {
	taken := map[string]bool{"x": true, "x-2": true}
	var asked []string
	got, err := Generate(context.Background(), "x", func(_ context.Context, candidate string) (bool, error) {
		asked = append(asked, candidate)
		return taken[candidate], nil
	})
	require.NoError(t, err)
	require.Equal(t, "x-3", got)
	require.Equal(t, []string{"x", "x-2", "x-3"}, asked)
}

func TestGenerateReturnsBaseWhenFree(t *testing.T) {
	got, err := Generate(context.Background(), "  Jöhn Dóe!  ", func(context.Context, string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	require.Equal(t, "john-doe", got)
}

func TestGenerateTrueOnceThenFalse(t *testing.T) {
	calls := 0
	got, err := Generate(context.Background(), "Test Attraction", func(context.Context, string) (bool, error) {
		calls++
		return calls == 1, nil
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^test-attraction-\d+$`), got)
	require.NotEqual(t, "test-attraction", got)
}

func TestGeneratePropagatesExistsFailure(t *testing.T) {
	boom := errors.New("db down")
	_, err := Generate(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
	_, isSvc := shared.AsServiceError(err)
	require.False(t, isSvc)
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	_, err := Generate(context.Background(), "x", func(context.Context, string) (bool, error) {
		return true, nil
	})
	require.ErrorIs(t, err, shared.ErrConflict)
}
