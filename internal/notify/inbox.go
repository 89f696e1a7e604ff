// Package notify holds non-fatal notices (fallbacks, forced submissions,
// recovery prompts) until a client collects them.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"interviewassist/internal/models"
)

// Inbox stores notices in memory with a TTL. Unread notices simply expire.
type Inbox struct {
	entries map[string]*entry
	mu      sync.RWMutex
	ttl     time.Duration
	seq     uint64
	done    chan struct{}
	once    sync.Once
}

type entry struct {
	seq       uint64
	notice    models.Notice
	expiresAt time.Time
}

// NewInbox creates an inbox with the specified TTL
func NewInbox(ttl time.Duration) *Inbox {
	in := &Inbox{
		entries: make(map[string]*entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go in.cleanupLoop()

	return in
}

// Push records a notice and returns it.
func (in *Inbox) Push(level, message string) models.Notice {
	now := time.Now().UTC()
	n := models.Notice{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	in.seq++
	in.entries[n.ID] = &entry{seq: in.seq, notice: n, expiresAt: now.Add(in.ttl)}
	return n
}

func (in *Inbox) Info(message string)    { in.Push(models.NoticeInfo, message) }
func (in *Inbox) Warning(message string) { in.Push(models.NoticeWarning, message) }

// Drain removes and returns every unexpired notice, oldest first.
func (in *Inbox) Drain() []models.Notice {
	in.mu.Lock()
	defer in.mu.Unlock()

	now := time.Now()
	live := make([]*entry, 0, len(in.entries))
	for id, e := range in.entries {
		if !now.After(e.expiresAt) {
			live = append(live, e)
		}
		delete(in.entries, id)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })

	out := make([]models.Notice, len(live))
	for i, e := range live {
		out[i] = e.notice
	}
	return out
}

// Size returns the number of held notices, expired ones included.
func (in *Inbox) Size() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return len(in.entries)
}

// Close stops the cleanup goroutine.
func (in *Inbox) Close() {
	in.once.Do(func() { close(in.done) })
}

func (in *Inbox) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			in.cleanup()
		case <-in.done:
			return
		}
	}
}

func (in *Inbox) cleanup() {
	in.mu.Lock()
	defer in.mu.Unlock()

	now := time.Now()
	for id, e := range in.entries {
		if now.After(e.expiresAt) {
			delete(in.entries, id)
		}
	}
}
