package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		require.Equal(t,
			[]string{"flour", "sugar", "eggs"},
			ParseList("flour | sugar|eggs"),
		)
	})

	t.Run("drops empty entries", func(t *testing.T) {
		require.Equal(t, []string{"mix", "bake"}, ParseList("|mix||bake| "))
	})

	t.Run("preserves order", func(t *testing.T) {
		require.Equal(t, []string{"c", "a", "b"}, ParseList("c|a|b"))
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, ParseList(""))
		require.Empty(t, ParseList(" | | "))
	})
}

func TestJoinList(t *testing.T) {
	require.Equal(t, "flour|sugar|eggs", JoinList([]string{"flour", "sugar", "eggs"}))
	require.Equal(t, "", JoinList(nil))

	// An item containing the separator re-splits when parsed back; the form
	// format cannot express it.
	require.Equal(t, []string{"a", "b"}, ParseList(JoinList([]string{"a|b"})))
}

func TestIsCategory(t *testing.T) {
	require.Len(t, Categories, 9)

	for _, c := range Categories {
		require.True(t, IsCategory(c), c)
	}

	require.False(t, IsCategory("Dessert"))
	require.False(t, IsCategory(""))
	require.False(t, IsCategory("cookies")) // labels are case-sensitive
}
