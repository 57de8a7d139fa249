// Package rwfair implements a fair, writer-preferring reader/writer lock.
//
// The Inverted Index is read-mostly under query load but endures bursts of
// writes during ingestion and crawl-time merges. sync.RWMutex in the
// standard library does not document writer-preference, so a long stream
// of readers can in principle starve a writer indefinitely. Lock grounds
// its state machine in the same condvar-broadcast pattern used by
// intention locks elsewhere in this codebase's lineage, collapsed from
// four lock states down to the two this system actually needs: S (shared
// read) and X (exclusive write).
package rwfair

import "sync"

// Lock is a fair, non-reentrant reader/writer lock. The zero value is
// ready to use.
//
// Fairness: once a writer is waiting, no new reader is admitted until that
// writer (and any writers that were already waiting ahead of it) have run.
// Readers already holding the lock when a writer arrives are allowed to
// drain normally.
//
// Misuse (unlocking a lock you don't hold, in the wrong mode) panics
// rather than corrupting state silently.
type Lock struct {
	mu             sync.Mutex
	cond           *sync.Cond
	readers        int
	writing        bool
	waitingWriters int
}

// New returns a ready-to-use Lock.
func New() *Lock {
	l := &Lock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *Lock) lazyInit() {
	if l.cond == nil {
		l.cond = sync.NewCond(&l.mu)
	}
}

// ReadLock blocks until no writer holds or is waiting for the lock, then
// registers the caller as one of possibly many concurrent readers.
func (l *Lock) ReadLock() {
	l.mu.Lock()
	l.lazyInit()
	for l.writing || l.waitingWriters > 0 {
		l.cond.Wait()
	}
	l.readers++
	l.mu.Unlock()
}

// ReadUnlock releases one reader's hold on the lock. Calling it without a
// matching ReadLock is a programming error and panics.
func (l *Lock) ReadUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readers == 0 {
		panic("rwfair: ReadUnlock without matching ReadLock")
	}
	l.readers--
	if l.readers == 0 {
		l.cond.Broadcast()
	}
}

// WriteLock blocks until no reader and no other writer holds the lock,
// then takes it exclusively. The caller is counted among waitingWriters
// for the duration of the wait so that new readers arriving after it
// cannot jump the queue.
func (l *Lock) WriteLock() {
	l.mu.Lock()
	l.lazyInit()
	l.waitingWriters++
	for l.writing || l.readers > 0 {
		l.cond.Wait()
	}
	l.waitingWriters--
	l.writing = true
	l.mu.Unlock()
}

// WriteUnlock releases the exclusive hold on the lock. Calling it without
// a matching WriteLock is a programming error and panics.
func (l *Lock) WriteUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.writing {
		panic("rwfair: WriteUnlock without matching WriteLock")
	}
	l.writing = false
	l.cond.Broadcast()
}
