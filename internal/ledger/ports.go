package ledger

import (
	"context"
	"errors"

	"tally/internal/core"
)

// ErrIndexOutOfRange is returned by Delete when no row exists at the
// requested ordinal position.
var ErrIndexOutOfRange = errors.New("row index out of range")

// Ports for outbound persistence adapters. Rows are identified by their
// ordinal position in the table; deleting a row reindexes the rows after it.
type (
	Loader interface {
		// Load returns all rows in table order. A missing table is
		// initialized empty, not reported as an error.
		Load(ctx context.Context) ([]core.Transaction, error)
	}

	Appender interface {
		// Append adds a row at the end of the table and returns a
		// backend-specific row reference.
		Append(ctx context.Context, tx core.Transaction) (ref string, err error)
	}

	Deleter interface {
		// Delete removes the row at the given ordinal index.
		// Returns ErrIndexOutOfRange when the index does not exist.
		Delete(ctx context.Context, index int) error
	}

	// Store is the full record store contract.
	Store interface {
		Loader
		Appender
		Deleter
	}
)
