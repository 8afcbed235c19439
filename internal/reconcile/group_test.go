package reconcile

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupConsecutive(t *testing.T) {
	identity := func(s string) string { return s }

	collect := func(items []string) ([]string, [][]string) {
		var keys []string
		var groups [][]string
		for k, g := range GroupConsecutive(slices.Values(items), identity) {
			keys = append(keys, k)
			groups = append(groups, g)
		}
		return keys, groups
	}

	t.Run("empty input yields nothing", func(t *testing.T) {
		keys, groups := collect(nil)
		assert.Empty(t, keys)
		assert.Empty(t, groups)
	})

	t.Run("groups adjacent keys", func(t *testing.T) {
		keys, groups := collect([]string{"a", "a", "b", "c", "c", "c"})
		assert.Equal(t, []string{"a", "b", "c"}, keys)
		assert.Equal(t, [][]string{{"a", "a"}, {"b"}, {"c", "c", "c"}}, groups)
	})

	t.Run("a key that reappears starts a new group", func(t *testing.T) {
		keys, _ := collect([]string{"a", "b", "a"})
		assert.Equal(t, []string{"a", "b", "a"}, keys)
	})

	t.Run("stops when the consumer breaks", func(t *testing.T) {
		var seen []string
		for k := range GroupConsecutive(slices.Values([]string{"a", "b", "c"}), identity) {
			seen = append(seen, k)
			if k == "b" {
				break
			}
		}
		assert.Equal(t, []string{"a", "b"}, seen)
	})
}
