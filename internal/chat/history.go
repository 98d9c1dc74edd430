package chat

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/kbagent/internal/db"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

// newTurnID generates a ULID for a conversation turn.
func newTurnID() string {
	entropyOnce.Do(func() {
		entropy = ulid.Monotonic(rand.Reader, 0)
	})
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// recordTurn appends one turn to the durable history. History is advisory
// context for the model, so write failures are swallowed rather than turned
// into user-facing errors.
func (d *Dispatcher) recordTurn(role, content string) {
	if d.database == nil || content == "" {
		return
	}
	_ = db.InsertTurn(d.database, &db.Turn{
		ID:      newTurnID(),
		Role:    role,
		Content: content,
	})
}

// recentTurns loads the trailing window of conversation history in
// chronological order. A read failure just yields an empty window.
func (d *Dispatcher) recentTurns() []db.Turn {
	if d.database == nil || d.cfg.HistoryLimit <= 0 {
		return nil
	}
	turns, err := db.RecentTurns(d.database, d.cfg.HistoryLimit)
	if err != nil {
		return nil
	}
	return turns
}
