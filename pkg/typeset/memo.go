package typeset

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

type memoKey struct {
	content string
	display bool
}

func (k memoKey) String() string {
	if k.display {
		return "d:" + k.content
	}
	return "i:" + k.content
}

// Memo caches the markup produced by an underlying engine. It is safe for
// concurrent use; the runner shares one Memo across its workers, and
// concurrent misses on one formula wait for a single render.
type Memo struct {
	engine Engine
	flight singleflight.Group

	mu      sync.Mutex
	entries map[memoKey]string
	hits    int
	misses  int
}

// NewMemo wraps engine with a cache.
func NewMemo(engine Engine) *Memo {
	return &Memo{
		engine:  engine,
		entries: make(map[memoKey]string),
	}
}

// Render returns cached markup or renders and stores it.
func (m *Memo) Render(content string, displayMode bool) string {
	key := memoKey{content: content, display: displayMode}

	if markup, ok := m.lookup(key, true); ok {
		return markup
	}

	markup, _, _ := m.flight.Do(key.String(), func() (any, error) {
		// A flight that finished after our lookup has already stored it.
		if markup, ok := m.lookup(key, false); ok {
			return markup, nil
		}

		markup := m.engine.Render(content, displayMode)

		m.mu.Lock()
		m.entries[key] = markup
		m.mu.Unlock()

		return markup, nil
	})

	return markup.(string) //nolint:forcetypeassert // The flight only returns strings.
}

// lookup returns the cached markup for key, counting the hit or miss when
// count is set.
func (m *Memo) lookup(key memoKey, count bool) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	markup, ok := m.entries[key]
	if count {
		if ok {
			m.hits++
		} else {
			m.misses++
		}
	}
	return markup, ok
}

// Stats returns the number of cache hits and misses so far.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
