// Package memory provides a process-local order store. It implements the same
// ports as the Postgres adapter and is selected with STORE_BACKEND=memory.
//
// A unit of work stages its writes and applies them at Commit under the store
// mutex, after checking every staged update against the committed version.
// There are no row locks: concurrent writers of one order are serialised by the
// version check, and the loser gets errs.VersionIsInvalidError.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

type logRecord struct {
	seq   int64
	entry *oplog.Entry
}

// Store holds committed orders and operation log entries.
type Store struct {
	mu     sync.RWMutex
	orders map[string]order.Snapshot
	logs   map[string][]logRecord

	// seq orders log entries that share an operate time
	seq atomic.Int64
}

func NewStore() *Store {
	return &Store{
		orders: make(map[string]order.Snapshot),
		logs:   make(map[string][]logRecord),
	}
}

// Create returns a new unit of work bound to the store.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Get reads a committed order.
func (s *Store) Get(_ context.Context, orderNo string) (*order.Order, error) {
	s.mu.RLock()
	snapshot, ok := s.orders[orderNo]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", orderNo)
	}
	return order.RestoreOrder(snapshot)
}

// GetAllInStatus lists committed orders in a status, oldest first.
func (s *Store) GetAllInStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	s.mu.RLock()
	snapshots := make([]order.Snapshot, 0)
	for _, snapshot := range s.orders {
		if snapshot.Status == status {
			snapshots = append(snapshots, snapshot)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(snapshots, func(a, b order.Snapshot) int {
		if c := a.CreateTime.Compare(b.CreateTime); c != 0 {
			return c
		}
		return cmp.Compare(a.OrderNo, b.OrderNo)
	})

	orders := make([]*order.Order, 0, len(snapshots))
	for _, snapshot := range snapshots {
		o, err := order.RestoreOrder(snapshot)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// ListByOrder returns committed entries, most recent first.
func (s *Store) ListByOrder(_ context.Context, orderNo string) ([]*oplog.Entry, error) {
	s.mu.RLock()
	records := slices.Clone(s.logs[orderNo])
	s.mu.RUnlock()

	slices.SortFunc(records, func(a, b logRecord) int {
		if c := b.entry.OperateTime().Compare(a.entry.OperateTime()); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	entries := make([]*oplog.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.entry)
	}
	return entries, nil
}

func (s *Store) allocateSeq() int64 {
	return s.seq.Add(1)
}

// apply commits staged changes atomically. Every change is checked before any
// is written.
func (s *Store) apply(orders []stagedOrder, entries []*oplog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, staged := range orders {
		current, exists := s.orders[staged.snapshot.OrderNo]
		switch {
		case staged.isNew && exists:
			return errs.NewValueIsInvalidError("orderNo")
		case !staged.isNew && !exists:
			return errs.NewObjectNotFoundError("order", staged.snapshot.OrderNo)
		case !staged.isNew && current.Version != staged.snapshot.Version:
			return errs.NewVersionIsInvalidError("order", nil)
		}
	}

	for _, staged := range orders {
		snapshot := staged.snapshot
		snapshot.Version++
		s.orders[snapshot.OrderNo] = snapshot
	}
	for _, entry := range entries {
		s.logs[entry.OrderNo()] = append(s.logs[entry.OrderNo()], logRecord{seq: s.allocateSeq(), entry: entry})
	}
	return nil
}

func (s *Store) snapshot(orderNo string) (order.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.orders[orderNo]
	return snapshot, ok
}
