//go:build e2e

package e2e

import (
	"context"
	"sync"

	"ticket-gate/internal/usecase/commands"
)

// MailRecorder stands in for the outbound mail API. It accepts every send and
// keeps the payloads for assertions.
type MailRecorder struct {
	mu    sync.Mutex
	mails []commands.Mail
}

func NewMailRecorder() *MailRecorder {
	return &MailRecorder{}
}

func (r *MailRecorder) Send(_ context.Context, mail commands.Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, mail)
	return nil
}

func (r *MailRecorder) Sent() []commands.Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]commands.Mail, len(r.mails))
	copy(out, r.mails)
	return out
}

func (r *MailRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = nil
}

// inProcessLocker replaces the Redis dispatch lock with a process-local map so
// e2e runs need no Redis container.
type inProcessLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newInProcessLocker() *inProcessLocker {
	return &inProcessLocker{held: make(map[string]bool)}
}

func (l *inProcessLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, commands.ErrDispatchInProgress
	}
	l.held[key] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}
	return release, nil
}
