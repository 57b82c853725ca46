package ops

import (
	"sync"
	"time"
)

const noticeTTL = 5 * time.Second

// Notice is a transient board message, shown until it expires.
type Notice struct {
	Message   string
	CreatedAt time.Time
	expiresAt time.Time
}

// NoticeBoard holds short-lived notices per scope (a view name or a
// waiter-scoped key). Expired notices are dropped on read.
type NoticeBoard struct {
	mu      sync.Mutex
	notices map[string][]Notice
	ttl     time.Duration
	now     func() time.Time
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{
		notices: make(map[string][]Notice),
		ttl:     noticeTTL,
		now:     time.Now,
	}
}

func (b *NoticeBoard) Post(scope, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.notices[scope] = append(b.notices[scope], Notice{
		Message:   message,
		CreatedAt: now,
		expiresAt: now.Add(b.ttl),
	})
}

// Active returns the scope's unexpired notices and prunes the rest.
func (b *NoticeBoard) Active(scope string) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var keep []Notice
	for _, n := range b.notices[scope] {
		if now.Before(n.expiresAt) {
			keep = append(keep, n)
		}
	}
	if keep == nil {
		delete(b.notices, scope)
	} else {
		b.notices[scope] = keep
	}

	return keep
}
