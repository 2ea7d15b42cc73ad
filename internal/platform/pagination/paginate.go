package pagination

import (
	"net/url"
	"strconv"
)

// Page is one slice of a listing plus the links around it.
type Page[T any] struct {
	Items      []T
	Total      int
	NextCursor string
	PrevCursor string
	LinkHeader string
}

// Paginate returns the items after cursor, up to limit. A cursor whose ID is
// no longer present restarts from the first item. Links keep query and set limit.
func Paginate[T any](
	items []T,
	cursor Cursor,
	limit int,
	cursorType string,
	id func(T) string,
	baseURL string,
	query url.Values,
) Page[T] {
	total := len(items)
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := 0
	if cursor.Value != "" {
		for i, item := range items {
			if id(item) == cursor.Value {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, total)
	page := Page[T]{Items: items[start:end], Total: total}

	if end < total && end > start {
		page.NextCursor = Cursor{Type: cursorType, Value: id(items[end-1])}.Encode()
	}
	if start > 0 {
		// The previous page starts right after items[start-limit-1], or at the top.
		prev := ""
		if start > limit {
			prev = id(items[start-limit-1])
		}
		page.PrevCursor = Cursor{Type: cursorType, Value: prev}.Encode()
	}

	q := cloneValues(query)
	q.Set("limit", strconv.Itoa(limit))
	page.LinkHeader = BuildLinkHeader(baseURL, q, page.NextCursor, page.PrevCursor)
	return page
}
