package match

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var errAwaitTimeout = fmt.Errorf("await timeout")

// inbox holds the single outstanding "next message from player X" wait of a session.
type inbox struct {
	mtx    sync.Mutex
	userID int64
	ch     chan string
}

// expect must be called before the prompt goes out so an instant reply is not lost.
func (b *inbox) expect(userID int64) chan string {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.userID = userID
	b.ch = make(chan string, 1)
	return b.ch
}

// deliver hands text to the pending wait. Late or foreign input is a no-op.
func (b *inbox) deliver(userID int64, text string) bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.ch == nil || b.userID != userID {
		return false
	}

	b.ch <- text
	b.ch = nil
	b.userID = 0

	return true
}

func (b *inbox) discard(ch chan string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.ch == ch {
		b.ch = nil
		b.userID = 0
	}
}

func (b *inbox) await(ctx context.Context, ch chan string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-ch:
		return text, nil
	case <-ctx.Done():
		b.discard(ch)
		return "", ErrSessionEnded
	case <-timer.C:
	}

	b.discard(ch)

	// input accepted right before the wait was discarded still counts
	select {
	case text := <-ch:
		return text, nil
	default:
		return "", errAwaitTimeout
	}
}
