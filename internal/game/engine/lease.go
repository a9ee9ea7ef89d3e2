package engine

import (
	"context"
	"sync"
	"time"
)

// leaseSet grants exclusive per-table leases within this process. A lease
// serializes transitions so concurrent submissions for the same table queue
// up instead of racing the optimistic save.
type leaseSet struct {
	mu     sync.Mutex
	leases map[string]chan struct{}
}

func newLeaseSet() *leaseSet {
	return &leaseSet{leases: make(map[string]chan struct{})}
}

func (s *leaseSet) lease(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.leases[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.leases[id] = ch
	}
	return ch
}

// acquire takes the lease for id, waiting up to timeout. It reports false
// when the lease could not be acquired in time.
func (s *leaseSet) acquire(ctx context.Context, id string, timeout time.Duration) bool {
	ch := s.lease(id)
	select {
	case ch <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// release returns the lease for id.
func (s *leaseSet) release(id string) {
	ch := s.lease(id)
	select {
	case <-ch:
	default:
	}
}
