package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedItems(urls ...string) []Item {
	items := make([]Item, 0, len(urls))
	for _, u := range urls {
		items = append(items, Item{URL: u})
	}
	return items
}

func TestSelectNew_SkipsExisting(t *testing.T) {
	t.Parallel()

	items := feedItems("a", "b", "c", "d")
	existing := map[string]bool{"a": true, "c": true}

	exists := func(_ context.Context, url string) (bool, error) {
		return existing[url], nil
	}

	selected, err := SelectNew(context.Background(), items, exists, 3)
	require.NoError(t, err)
	assert.Equal(t, feedItems("b", "d"), selected)
}

func TestSelectNew_StopsAtLimit(t *testing.T) {
	t.Parallel()

	items := feedItems("a", "b", "c", "d", "e")

	var checked []string
	exists := func(_ context.Context, url string) (bool, error) {
		checked = append(checked, url)
		return false, nil
	}

	selected, err := SelectNew(context.Background(), items, exists, 2)
	require.NoError(t, err)
	assert.Equal(t, feedItems("a", "b"), selected)

	// Once the limit is reached, no further existence checks go out.
	assert.Equal(t, []string{"a", "b"}, checked)
}

func TestSelectNew_ZeroLimit(t *testing.T) {
	t.Parallel()

	exists := func(_ context.Context, _ string) (bool, error) {
		t.Fatal("exists must not be called with a zero limit")
		return false, nil
	}

	selected, err := SelectNew(context.Background(), feedItems("a"), exists, 0)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestSelectNew_ExistenceCheckFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	exists := func(_ context.Context, url string) (bool, error) {
		if url == "b" {
			return false, boom
		}
		return false, nil
	}

	_, err := SelectNew(context.Background(), feedItems("a", "b", "c"), exists, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
