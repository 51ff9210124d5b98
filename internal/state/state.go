package state

import (
	"sync"

	"github.com/xiaoguangdong/cover-magic/internal/config"
)

// Store owns the current cover configuration. The UI layer mutates it through
// the setters; the engine reads consistent snapshots. Every mutation fires
// OnChange (when set), which the scheduler uses as its invalidation signal.
type Store struct {
	mu    sync.RWMutex
	cover config.Cover

	// OnChange is invoked after every mutation, outside the lock.
	OnChange func()

	// OnIconSourceChange is invoked when the icon SVG markup itself changes,
	// so the raster cache can be dropped synchronously.
	OnIconSourceChange func()
}

func NewStore() *Store {
	return &Store{cover: config.DefaultCover()}
}

func (store *Store) Snapshot() config.Cover {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.cover
}

func (store *Store) SetBackground(bg config.Background) {
	store.mu.Lock()
	store.cover.Background = bg
	store.mu.Unlock()
	store.notify()
}

func (store *Store) SetIcon(icon config.Icon) {
	store.mu.Lock()
	changed := store.cover.Icon.Source != icon.Source
	store.cover.Icon = icon
	store.mu.Unlock()
	if changed && store.OnIconSourceChange != nil {
		store.OnIconSourceChange()
	}
	store.notify()
}

func (store *Store) SetTitle(title config.Title) {
	store.mu.Lock()
	store.cover.Title = title
	store.mu.Unlock()
	store.notify()
}

func (store *Store) SetWatermark(wm config.Watermark) {
	store.mu.Lock()
	store.cover.Watermark = wm
	store.mu.Unlock()
	store.notify()
}

// SetCover replaces the whole configuration at once (initial load).
func (store *Store) SetCover(cover config.Cover) {
	store.mu.Lock()
	changed := store.cover.Icon.Source != cover.Icon.Source
	store.cover = cover
	store.mu.Unlock()
	if changed && store.OnIconSourceChange != nil {
		store.OnIconSourceChange()
	}
	store.notify()
}

func (store *Store) notify() {
	if store.OnChange != nil {
		store.OnChange()
	}
}
