package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("record not found")

// SortOrder orders results by a database column.
type SortOrder struct {
	Column string
	Desc   bool
}

// PageRequest selects page Page (0-based) of Size rows.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
