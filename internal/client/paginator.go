package client

import (
	"context"
	"errors"

	"github.com/rehabworks/catalog/internal/pagination"
)

var (
	// ErrNoNextPage is returned by Next when the current page is the last
	// one (or no page has been loaded yet).
	ErrNoNextPage = errors.New("no next page")
	// ErrNoPrevPage is returned by Prev on the first page.
	ErrNoPrevPage = errors.New("no previous page")
)

// Paginator walks cursor-mode list results while remembering every cursor it
// has visited. Backward navigation replays a remembered cursor rather than
// asking the server for a reversed page, so going back always reproduces the
// page exactly as it was fetched (given no intervening writes).
//
// The visited cursors form a stack [nil, c1, c2, ...] with an index pointing
// at the current page. The stack lives for one browsing session and is
// discarded on Reset.
type Paginator struct {
	client  *Client
	opts    ListOptions
	cursors []*pagination.Cursor
	index   int
	current *ListPage
}

// NewPaginator creates a paginator for the given filter/sort options,
// positioned before the first page. Call Load to fetch it.
func NewPaginator(c *Client, opts ListOptions) *Paginator {
	return &Paginator{
		client:  c,
		opts:    opts,
		cursors: []*pagination.Cursor{nil},
		index:   0,
	}
}

// Reset replaces the filter/sort options and discards all navigation
// history. Any change to the query shape starts a new page sequence.
func (p *Paginator) Reset(opts ListOptions) {
	p.opts = opts
	p.cursors = []*pagination.Cursor{nil}
	p.index = 0
	p.current = nil
}

// Current returns the most recently fetched page, or nil before the first
// Load.
func (p *Paginator) Current() *ListPage {
	return p.current
}

// HasNext reports whether Next can advance.
func (p *Paginator) HasNext() bool {
	return p.current != nil && p.current.HasNext && p.current.NextCursor != nil
}

// HasPrev reports whether Prev can go back.
func (p *Paginator) HasPrev() bool {
	return p.index > 0
}

// Load fetches the page at the current position.
func (p *Paginator) Load(ctx context.Context) (*ListPage, error) {
	page, err := p.client.ListCursor(ctx, p.opts, p.cursors[p.index])
	if err != nil {
		return nil, err
	}
	p.current = page
	return page, nil
}

// Next advances to the next page. Forward history beyond the current
// position is discarded: navigating back and then forward again branches a
// fresh sequence from the server, not the remembered one. The stack and
// position are only committed after a successful fetch, so a failed request
// leaves the paginator where it was.
func (p *Paginator) Next(ctx context.Context) (*ListPage, error) {
	if !p.HasNext() {
		return nil, ErrNoNextPage
	}

	next := p.current.NextCursor
	page, err := p.client.ListCursor(ctx, p.opts, next)
	if err != nil {
		return nil, err
	}

	p.cursors = append(p.cursors[:p.index+1], next)
	p.index++
	p.current = page
	return page, nil
}

// Prev steps back to the previous page by replaying its stored cursor.
func (p *Paginator) Prev(ctx context.Context) (*ListPage, error) {
	if !p.HasPrev() {
		return nil, ErrNoPrevPage
	}

	page, err := p.client.ListCursor(ctx, p.opts, p.cursors[p.index-1])
	if err != nil {
		return nil, err
	}

	p.index--
	p.current = page
	return page, nil
}
