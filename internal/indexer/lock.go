package indexer

import "sync/atomic"

// IndexLock serializes indexing runs without blocking: a second run is
// rejected with ErrIndexInProgress instead of queuing behind the first.
type IndexLock struct {
	state atomic.Int32 // 0 = free, 1 = held
}

// TryAcquire reports whether the lock was taken.
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock for the next run. Only the holder may call it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}
