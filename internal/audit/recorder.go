// Package audit provides the fire-and-forget recorder for security-relevant
// actions. A failed or slow audit write must never fail or delay the request
// that triggered it, so writes happen on their own goroutine with their own
// deadline and failures go to the log only.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
)

const writeTimeout = 2 * time.Second

// Recorder appends immutable audit entries in the background.
type Recorder struct {
	repo   *repository.AuditRepo
	logger zerolog.Logger
	wg     sync.WaitGroup
}

func NewRecorder(repo *repository.AuditRepo, logger zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger.With().Str("component", "audit").Logger()}
}

// Record queues one entry for the actor. It returns immediately; the write
// runs detached from the request context so a client disconnect cannot
// cancel it. actorID zero records a system/anonymous action.
func (r *Recorder) Record(actorID uint64, action model.AuditAction, details map[string]any) {
	entry := &model.AuditEntry{ActorUserID: actorID, Action: action, Details: details}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.repo.Insert(ctx, entry); err != nil {
			r.logger.Error().Err(err).
				Uint64("actor", actorID).
				Str("action", string(action)).
				Msg("audit write failed")
		}
	}()
}

// Drain blocks until all queued writes finish. Called during graceful
// shutdown so the last logins are not lost.
func (r *Recorder) Drain() { r.wg.Wait() }
