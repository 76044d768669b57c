// Package notice holds the dismissible notifications a page shows its user.
package notice

import (
	"sync"
	"time"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/common/metrics"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Center is safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

func NewCenter() *Center {
	return &Center{now: time.Now}
}

func (c *Center) push(level Level, title, message string) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: c.now().UTC(),
	}
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
	metrics.NoticesPushed.WithLabelValues(string(level)).Inc()
	return n
}

func (c *Center) Success(title, message string) Notice { return c.push(LevelSuccess, title, message) }

func (c *Center) Info(title, message string) Notice { return c.push(LevelInfo, title, message) }

func (c *Center) Warn(title, message string) Notice { return c.push(LevelWarning, title, message) }

func (c *Center) Error(title, message string) Notice { return c.push(LevelError, title, message) }

// FromError records err as an error notice whose message is the backend's own text
// when present, fallback otherwise.
func (c *Center) FromError(title string, err error, fallback string) Notice {
	return c.push(LevelError, title, apperrors.UserMessage(err, fallback))
}

// Dismiss removes the notice with id and reports whether it existed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i:i], c.notices[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the pending notices, oldest first.
func (c *Center) List() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notices)
}

func (c *Center) Clear() {
	c.mu.Lock()
	c.notices = nil
	c.mu.Unlock()
}
