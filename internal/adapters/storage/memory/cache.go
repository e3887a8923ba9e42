package memory

import (
	"encoding/json"
	"sync"

	"github.com/Hotate516/kiga-workspace/internal/domain"
)

// Cache is an in-memory domain.NoteCache. The CLI uses the sqlite cache;
// this one backs tests and setups without a writable disk.
type Cache struct {
	mu         sync.RWMutex
	titles     map[contentKey]string
	contents   map[contentKey][]byte
	lastOpened map[domain.UserID]domain.NoteID
}

func NewCache() *Cache {
	return &Cache{
		titles:     make(map[contentKey]string),
		contents:   make(map[contentKey][]byte),
		lastOpened: make(map[domain.UserID]domain.NoteID),
	}
}

func (c *Cache) Title(uid domain.UserID, id domain.NoteID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	title, ok := c.titles[contentKey{uid, id}]
	return title, ok
}

func (c *Cache) SetTitle(uid domain.UserID, id domain.NoteID, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles[contentKey{uid, id}] = title
}

func (c *Cache) Content(uid domain.UserID, id domain.NoteID) (domain.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, ok := c.contents[contentKey{uid, id}]
	if !ok {
		return domain.Document{}, false
	}
	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, false
	}
	return doc, true
}

func (c *Cache) SetContent(uid domain.UserID, id domain.NoteID, doc domain.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contents[contentKey{uid, id}] = raw
}

func (c *Cache) Remove(uid domain.UserID, id domain.NoteID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.titles, contentKey{uid, id})
	delete(c.contents, contentKey{uid, id})
}

func (c *Cache) LastOpened(uid domain.UserID) (domain.NoteID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.lastOpened[uid]
	return id, ok
}

func (c *Cache) SetLastOpened(uid domain.UserID, id domain.NoteID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastOpened[uid] = id
}
