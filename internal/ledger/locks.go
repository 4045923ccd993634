package ledger

import "sync"

// accountLocks serializes balance mutations per account. Concurrent
// operations on the same account queue here, so the read-modify-write of
// the balance never interleaves.
type accountLocks struct {
	mu sync.Mutex
	m  map[uint64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{m: make(map[uint64]*sync.Mutex)}
}

func (l *accountLocks) get(id uint64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	return m
}

// lock acquires the mutation scope for one account and returns its release.
func (l *accountLocks) lock(id uint64) func() {
	m := l.get(id)
	m.Lock()
	return m.Unlock
}

// lockPair acquires two accounts' scopes in ascending id order regardless
// of role, so opposite-direction transfers cannot deadlock.
func (l *accountLocks) lockPair(a, b uint64) func() {
	if b < a {
		a, b = b, a
	}
	first, second := l.get(a), l.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}
