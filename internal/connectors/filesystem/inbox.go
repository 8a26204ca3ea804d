package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Inbox = (*Inbox)(nil)

// DefaultSettle is how long Watch waits after the last event before signalling.
const DefaultSettle = 250 * time.Millisecond

// Inbox is a directory pair on the local filesystem.
type Inbox struct {
	inboxDir string
	doneDir  string
	settle   time.Duration

	mu     sync.Mutex
	closed bool
	cancel []context.CancelFunc
}

// Option configures an Inbox.
type Option func(*Inbox)

// WithSettle sets the quiet period Watch waits for before signalling.
// Copies into the inbox produce a burst of events; one signal covers the burst.
func WithSettle(d time.Duration) Option {
	return func(i *Inbox) {
		if d >= 0 {
			i.settle = d
		}
	}
}

// New creates an inbox over inboxDir that relocates into doneDir.
func New(inboxDir, doneDir string, opts ...Option) *Inbox {
	i := &Inbox{
		inboxDir: inboxDir,
		doneDir:  doneDir,
		settle:   DefaultSettle,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InboxDir returns the inbox directory.
func (i *Inbox) InboxDir() string {
	return i.inboxDir
}

// DoneDir returns the done directory.
func (i *Inbox) DoneDir() string {
	return i.doneDir
}

// EnsureDirs creates both directories if they do not exist.
func (i *Inbox) EnsureDirs() error {
	for _, dir := range []string{i.inboxDir, i.doneDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// List returns regular, non-hidden files in the inbox sorted by name.
func (i *Inbox) List(ctx context.Context) ([]domain.InboxFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(i.inboxDir)
	if err != nil {
		return nil, fmt.Errorf("read inbox %s: %w", i.inboxDir, err)
	}

	files := make([]domain.InboxFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, domain.InboxFile{
			Name:       entry.Name(),
			Path:       filepath.Join(i.inboxDir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(a, b int) bool { return files[a].Name < files[b].Name })
	return files, nil
}

// Read returns the full content of file.
func (i *Inbox) Read(ctx context.Context, file domain.InboxFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(i.pathOf(file))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	return content, nil
}

// Relocate moves file into the done directory, replacing any file of the same name.
func (i *Inbox) Relocate(ctx context.Context, file domain.InboxFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(i.doneDir, 0o755); err != nil {
		return fmt.Errorf("create done dir: %w", err)
	}
	target := filepath.Join(i.doneDir, filepath.Base(file.Name))
	if err := os.Rename(i.pathOf(file), target); err != nil {
		return fmt.Errorf("move %s to %s: %w", file.Name, i.doneDir, err)
	}
	return nil
}

// Completed reports whether the done directory holds name with content hash.
func (i *Inbox) Completed(ctx context.Context, name, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	content, err := os.ReadFile(filepath.Join(i.doneDir, filepath.Base(name)))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read done file %s: %w", name, err)
	}
	return domain.ContentHash(content) == hash, nil
}

// Watch signals on the returned channel whenever a visible file in the inbox
// is created, written, renamed or removed. Bursts are coalesced over the settle
// period. The channel is closed when ctx is cancelled or the inbox is closed.
func (i *Inbox) Watch(ctx context.Context) (<-chan struct{}, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, errors.New("inbox is closed")
	}
	i.mu.Unlock()

	info, err := os.Stat(i.inboxDir)
	if err != nil {
		return nil, fmt.Errorf("inbox path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox path error: %s is not a directory", i.inboxDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(i.inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", i.inboxDir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancel = append(i.cancel, cancel)
	i.mu.Unlock()

	signals := make(chan struct{}, 1)
	go i.watchLoop(ctx, watcher, signals)
	return signals, nil
}

func (i *Inbox) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, signals chan<- struct{}) {
	defer close(signals)
	defer watcher.Close()

	var settle *time.Timer
	var settleC <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !i.handleFsEvent(event) {
				continue
			}
			if i.settle == 0 {
				notify(signals)
				continue
			}
			if settle == nil {
				settle = time.NewTimer(i.settle)
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(i.settle)
			}
			settleC = settle.C
		case <-settleC:
			settleC = nil
			notify(signals)
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// notify sends a signal unless one is already pending.
func notify(signals chan<- struct{}) {
	select {
	case signals <- struct{}{}:
	default:
	}
}

// handleFsEvent reports whether event should wake the scheduler.
func (i *Inbox) handleFsEvent(event fsnotify.Event) bool {
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			return false
		}
		return !info.IsDir()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return true
	default:
		return false
	}
}

// Close stops every active watch. Further Watch calls fail.
func (i *Inbox) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	for _, cancel := range i.cancel {
		cancel()
	}
	i.cancel = nil
	return nil
}

func (i *Inbox) pathOf(file domain.InboxFile) string {
	if file.Path != "" {
		return file.Path
	}
	return filepath.Join(i.inboxDir, file.Name)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
