// Package store persists page definitions.
//
// [FileStore] serves a directory of page files and is what the CLI and a
// single-node server use. [MongoStore] keeps pages in a MongoDB collection
// for shared deployments.
package store

import (
	"context"

	"github.com/matzehuels/slotframe/pkg/page"
)

// Store reads and writes pages by name.
type Store interface {
	// Get returns the named page. Missing pages fail with
	// errors.ErrCodePageNotFound.
	Get(ctx context.Context, name string) (*page.Page, error)

	// List returns all page names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Put creates or replaces a page.
	Put(ctx context.Context, p *page.Page) error

	// Close releases the store's resources.
	Close() error
}
