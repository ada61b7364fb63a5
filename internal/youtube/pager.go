package youtube

import (
	"context"
	"errors"
	"iter"
)

// ErrExhausted is returned by Next once the last page has been delivered.
var ErrExhausted = errors.New("youtube: pager exhausted")

// PageFunc fetches the page identified by token ("" for the first page) and
// returns its items and the continuation token ("" when there is no next page).
type PageFunc[T any] func(ctx context.Context, token string) (items []T, next string, err error)

// Pager walks a token-paginated collection one page at a time. A Pager is
// single-use and not safe for concurrent use; build a new one to restart.
type Pager[T any] struct {
	fetch PageFunc[T]
	token string
	pages int
	done  bool
}

// NewPager returns a pager positioned before the first page.
func NewPager[T any](fetch PageFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch}
}

// Next fetches the next page. On error the cursor does not move, so calling
// Next again retries the same page.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	if p.done {
		return nil, ErrExhausted
	}
	items, next, err := p.fetch(ctx, p.token)
	if err != nil {
		return nil, err
	}
	p.pages++
	p.token = next
	if next == "" {
		p.done = true
	}
	return items, nil
}

// Done reports whether the final page has been delivered.
func (p *Pager[T]) Done() bool {
	return p.done
}

// Pages reports how many pages have been fetched successfully.
func (p *Pager[T]) Pages() int {
	return p.pages
}

// All iterates over the remaining pages. Iteration stops after the first
// error, which is yielded with a nil page.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for !p.done {
			items, err := p.Next(ctx)
			if !yield(items, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the pager into a single slice.
func Collect[T any](ctx context.Context, p *Pager[T]) ([]T, error) {
	var all []T
	for items, err := range p.All(ctx) {
		if err != nil {
			return all, err
		}
		all = append(all, items...)
	}
	return all, nil
}
