package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhitelist_Allows(t *testing.T) {
	t.Parallel()

	w := NewWhitelist([]string{"2", "11"}, []string{"44", "90", "42", "4"})

	tests := []struct {
		name        string
		competition string
		season      string
		want        bool
	}{
		{name: "both listed", competition: "2", season: "44", want: true},
		{name: "other listed pair", competition: "11", season: "4", want: true},
		{name: "season not listed", competition: "2", season: "27", want: false},
		{name: "competition not listed", competition: "43", season: "44", want: false},
		{name: "no prefix match", competition: "1", season: "4", want: false},
		{name: "no suffix match", competition: "2", season: "444", want: false},
		{name: "tokens are not trimmed at lookup", competition: " 2", season: "44", want: false},
		{name: "empty tokens", competition: "", season: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Allows(tc.competition, tc.season))
		})
	}
}

func TestWhitelist_EmptyAllowsNothing(t *testing.T) {
	t.Parallel()

	w := NewWhitelist(nil, []string{"44"})
	assert.False(t, w.Allows("2", "44"))

	var zero Whitelist
	assert.False(t, zero.Allows("2", "44"))
}

func TestWhitelist_ConstructionTrimsAndSorts(t *testing.T) {
	t.Parallel()

	w := NewWhitelist([]string{" 11 ", "2", ""}, []string{"90", " 4"})
	assert.True(t, w.Allows("11", "4"))
	assert.Equal(t, []string{"11", "2"}, w.Competitions())
	assert.Equal(t, []string{"4", "90"}, w.Seasons())
}
