// Package notify collects transient user-facing messages. Handlers post a
// message after a mutation or a failed request; the next rendered page shows
// the still-active ones and expired messages drop out on their own.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultTTL matches how long a toast stays on screen.
const DefaultTTL = 5 * time.Second

type Message struct {
	ID      int64
	Level   Level
	Text    string
	Expires time.Time
}

// Center holds active messages for a single user session.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	nextID int64
	msgs   []Message

	now func() time.Time
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// Post adds a message that expires after the center's TTL.
func (c *Center) Post(level Level, text string) Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	m := Message{
		ID:      c.nextID,
		Level:   level,
		Text:    text,
		Expires: c.now().Add(c.ttl),
	}
	c.msgs = append(c.msgs, m)
	return m
}

func (c *Center) Info(text string) Message    { return c.Post(LevelInfo, text) }
func (c *Center) Success(text string) Message { return c.Post(LevelSuccess, text) }
func (c *Center) Error(text string) Message   { return c.Post(LevelError, text) }

// Active returns the messages that have not expired yet, oldest first, and
// prunes the expired ones.
func (c *Center) Active() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	live := c.msgs[:0]
	for _, m := range c.msgs {
		if m.Expires.After(now) {
			live = append(live, m)
		}
	}
	c.msgs = live

	out := make([]Message, len(live))
	copy(out, live)
	return out
}

// Dismiss removes a message before its TTL runs out.
func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, m := range c.msgs {
		if m.ID == id {
			c.msgs = append(c.msgs[:i], c.msgs[i+1:]...)
			return
		}
	}
}
