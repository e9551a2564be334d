package notify

import (
	"context"
	"sync"
	"time"
)

// LocalGuard es un SendGuard en proceso, para despliegues sin Redis.
type LocalGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	held map[string]time.Time
}

func NewLocalGuard(ttl time.Duration) *LocalGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LocalGuard{
		ttl:  ttl,
		now:  time.Now,
		held: make(map[string]time.Time),
	}
}

func (g *LocalGuard) Claim(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.held[key] = now.Add(g.ttl)

	// Limpieza perezosa de claims vencidos.
	for k, exp := range g.held {
		if !now.Before(exp) {
			delete(g.held, k)
		}
	}
	return true, nil
}

func (g *LocalGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
