package scan

import (
	"sync"
	"time"

	"dockhand/infrastructure/sqlite"
	"dockhand/infrastructure/ws"
	"dockhand/scanflow"
)

// NoticeLog buffers controller notices between requests so the next page
// render can show what an auto-submit produced in the background.
type NoticeLog struct {
	mu      sync.Mutex
	notices []scanflow.Notice
}

func (l *NoticeLog) Record(n scanflow.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Keep the log bounded; old notices were already missed.
	if len(l.notices) >= 20 {
		l.notices = l.notices[1:]
	}
	l.notices = append(l.notices, n)
}

func (l *NoticeLog) Drain() []scanflow.Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.notices
	l.notices = nil
	return out
}

// ControllerCache holds one scan controller per operator.
type ControllerCache struct {
	db       *sqlite.DB
	hub      *ws.Hub
	debounce time.Duration

	mu      sync.Mutex
	entries map[int64]*Entry
}

// Entry pairs an operator's controller with its notice buffer.
type Entry struct {
	Controller *scanflow.Controller
	Notices    *NoticeLog
}

func NewControllerCache(db *sqlite.DB, hub *ws.Hub, debounce time.Duration) *ControllerCache {
	return &ControllerCache{
		db:       db,
		hub:      hub,
		debounce: debounce,
		entries:  make(map[int64]*Entry),
	}
}

// Get returns the operator's controller, creating it on first use.
func (c *ControllerCache) Get(userID int64) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[userID]; ok {
		return e
	}
	log := &NoticeLog{}
	ctrl := scanflow.New(NewService(c.db, c.hub, userID), scanflow.Options{
		Debounce: c.debounce,
		Notify:   log.Record,
	})
	e := &Entry{Controller: ctrl, Notices: log}
	c.entries[userID] = e
	return e
}

// Remove closes and forgets the operator's controller (logout).
func (c *ControllerCache) Remove(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[userID]; ok {
		e.Controller.Close()
		delete(c.entries, userID)
	}
}
