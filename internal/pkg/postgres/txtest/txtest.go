// Package txtest provides an in-memory postgres.Transactor for usecase tests.
package txtest

import (
	"context"
	"sync"
)

type txKey struct{}

// Serial runs transactions one at a time, the way row locks serialise writers
// on the same rows. When Snapshot is set it is called at begin and the
// returned restore func is applied on rollback.
type Serial struct {
	mu       sync.Mutex
	Snapshot func() (restore func())

	Committed  int
	RolledBack int
}

func (s *Serial) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var restore func()
	if s.Snapshot != nil {
		restore = s.Snapshot()
	}

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		if restore != nil {
			restore()
		}
		s.RolledBack++
		return err
	}
	s.Committed++
	return nil
}

// InTx reports whether ctx was produced by Serial.WithinTx.
func InTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// Concurrent runs transactions in parallel. Rows taken with Lock stay held
// until the transaction that took them finishes, like SELECT ... FOR UPDATE.
// Writes are not isolated: callers see each other's uncommitted changes.
type Concurrent struct {
	// OnWait, when set, is called with the row key before Lock blocks on a
	// row held by another transaction.
	OnWait func(key string)

	mu   sync.Mutex
	rows map[string]*sync.Mutex
}

type heldRows struct {
	mu   sync.Mutex
	rows []*sync.Mutex
}

func (c *Concurrent) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	held := &heldRows{}
	defer func() {
		held.mu.Lock()
		defer held.mu.Unlock()
		for i := len(held.rows) - 1; i >= 0; i-- {
			held.rows[i].Unlock()
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, held))
}

// Lock blocks until the row named key is free and keeps it for the rest of the
// transaction on ctx. Outside a Concurrent transaction it does nothing.
func (c *Concurrent) Lock(ctx context.Context, key string) {
	held, ok := ctx.Value(txKey{}).(*heldRows)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.rows == nil {
		c.rows = make(map[string]*sync.Mutex)
	}
	row := c.rows[key]
	if row == nil {
		row = &sync.Mutex{}
		c.rows[key] = row
	}
	c.mu.Unlock()

	held.mu.Lock()
	for _, r := range held.rows {
		if r == row {
			held.mu.Unlock()
			return
		}
	}
	held.mu.Unlock()

	if !row.TryLock() {
		if c.OnWait != nil {
			c.OnWait(key)
		}
		row.Lock()
	}

	held.mu.Lock()
	held.rows = append(held.rows, row)
	held.mu.Unlock()
}
