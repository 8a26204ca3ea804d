package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// Inbox is the directory contract for ingestion: files arrive in an inbox
// directory and are relocated to a done directory once ingested.
type Inbox interface {
	// List returns the files currently in the inbox, sorted by name.
	List(ctx context.Context) ([]domain.InboxFile, error)

	// Read returns the full content of an inbox file.
	Read(ctx context.Context, file domain.InboxFile) ([]byte, error)

	// Relocate moves a file from the inbox to the done directory.
	Relocate(ctx context.Context, file domain.InboxFile) error

	// Completed reports whether the done directory holds a file with this
	// name whose content hash equals hash. A same-named file with other
	// content does not count.
	Completed(ctx context.Context, name, hash string) (bool, error)

	// Watch emits a signal whenever the inbox changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
