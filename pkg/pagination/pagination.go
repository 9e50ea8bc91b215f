// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package pagination provides bounded, page-addressed slices of larger
// result sets. Every listing endpoint returns a Page rather than raw rows.
package pagination

// Page is one bounded slice of an ordered result set. Total carries the
// full row count so callers can tell an empty result set from an
// out-of-range page.
type Page[T any] struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	Items       []T
}

// ClampPage normalizes a requested page number. Zero and negative values
// address the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset for a page of the given size.
func Offset(page, size int) int {
	return (ClampPage(page) - 1) * size
}

// TotalPages returns the number of pages needed for total rows at the given
// size. An empty result set still has one (empty) page, matching how page
// numbers are presented to clients.
func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// NewPage assembles a Page from a query result and its total row count.
func NewPage[T any](items []T, page, size int, total int64) Page[T] {
	return Page[T]{
		CurrentPage: ClampPage(page),
		TotalPages:  TotalPages(total, size),
		Total:       total,
		Items:       items,
	}
}
