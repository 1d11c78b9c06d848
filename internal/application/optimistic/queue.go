package optimistic

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// keyQueue runs mutations sharing a key one after another, in issue order
type keyQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{tails: make(map[string]chan struct{})}
}

// enqueue reserves the next slot for key. The caller must wait on the
// returned channel (nil when the key is idle) and call release when finished.
func (q *keyQueue) enqueue(key string) (<-chan struct{}, func()) {
	mine := make(chan struct{})

	q.mu.Lock()
	prev := q.tails[key]
	q.tails[key] = mine
	q.mu.Unlock()

	release := func() {
		close(mine)
		q.mu.Lock()
		if q.tails[key] == mine {
			delete(q.tails, key)
		}
		q.mu.Unlock()
	}
	return prev, release
}

// placeholderCapacity bounds how many committed placeholders stay resolvable.
// Owners apply results long before this many later creates commit.
const placeholderCapacity = 1024

// idMap remembers which server identifier replaced each placeholder,
// evicting the least recently used mapping beyond its capacity
type idMap struct {
	ids *lru.Cache[string, string]
}

func newIDMap(capacity int) *idMap {
	ids, err := lru.New[string, string](capacity)
	if err != nil {
		// only a non-positive capacity fails
		panic(err)
	}
	return &idMap{ids: ids}
}

func (m *idMap) set(placeholderID, serverID string) {
	m.ids.Add(placeholderID, serverID)
}

// resolve maps id to its server identifier. ok is false for a placeholder
// whose create never committed.
func (m *idMap) resolve(id string) (string, bool) {
	if !IsPlaceholder(id) {
		return id, true
	}
	return m.ids.Get(id)
}

func (m *idMap) forget(id string) {
	m.ids.Remove(id)
}

func (m *idMap) len() int {
	return m.ids.Len()
}
