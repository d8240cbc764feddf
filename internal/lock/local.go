package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Local is an in-process lock used when no Redis is configured.
type Local struct {
	mu    sync.Mutex
	token string
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) TryAcquire(context.Context) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.token != "" {
		return "", false, nil
	}
	l.token = uuid.NewString()
	return l.token, true, nil
}

func (l *Local) Release(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != "" && l.token == token {
		l.token = ""
	}
	return nil
}
