package feed

import "context"

// ExistsFunc reports whether a content item with the given URL is already
// stored.
type ExistsFunc func(ctx context.Context, url string) (bool, error)

// SelectNew returns, in feed order, the first limit items whose URLs are not
// already stored. Scanning stops as soon as limit new items are found, so
// existence checks are not issued for the remainder of the feed. A failing
// existence check aborts the scan; treating it as "new" would risk wasting
// an enrichment call on a duplicate.
func SelectNew(ctx context.Context, items []Item, exists ExistsFunc, limit int) ([]Item, error) {
	if limit <= 0 {
		return []Item{}, nil
	}

	selected := make([]Item, 0, limit)

	for i := range items {
		if len(selected) >= limit {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := exists(ctx, items[i].URL)
		if err != nil {
			return nil, err
		}
		if found {
			continue
		}

		selected = append(selected, items[i])
	}

	return selected, nil
}
