package workflow

import (
	"errors"
	"testing"
)

// NOTE: These tests are intentionally DB-free. They validate the advisory
// lock lifecycle ApproveTimesheet and BulkSignIn rely on: GET_LOCK is
// session-scoped, so the release must run on the pinned connection AFTER the
// inner transaction finished. A release issued through a committed tx never
// reaches MySQL and the lock stays held on the pooled connection. The fakes
// below model a session and a transaction with exactly those semantics.

// fakeSession stands in for a pinned *sql.Conn. Locks acquired on it stay
// held until released on the same live session.
type fakeSession struct {
	locks map[string]bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{locks: map[string]bool{}}
}

func (s *fakeSession) getLock(name string) bool {
	if s.locks[name] {
		return false
	}
	s.locks[name] = true
	return true
}

func (s *fakeSession) releaseLock(name string) {
	delete(s.locks, name)
}

func (s *fakeSession) held(name string) bool {
	return s.locks[name]
}

// fakeTx models database/sql's behavior: any statement after Commit or
// Rollback fails without reaching the server.
type fakeTx struct {
	session *fakeSession
	done    bool
}

func (tx *fakeTx) commit() {
	tx.done = true
}

func (tx *fakeTx) releaseLock(name string) error {
	if tx.done {
		return errors.New("sql: transaction has already been committed or rolled back")
	}
	tx.session.releaseLock(name)
	return nil
}

// runLocked mirrors the db.Connection + conn.Transaction shape used by
// BulkSignIn and the approval workflow: acquire on the session, run the
// transaction, release on the session after it finished.
func runLocked(s *fakeSession, lockName string, fn func(tx *fakeTx) error) error {
	if !s.getLock(lockName) {
		return errors.New("could not acquire lock")
	}
	defer s.releaseLock(lockName)

	tx := &fakeTx{session: s}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func TestLockReleasedOnSessionAfterCommit(t *testing.T) {
	s := newFakeSession()

	if err := runLocked(s, "approval:biz-1", func(tx *fakeTx) error { return nil }); err != nil {
		t.Fatalf("first locked section failed: %v", err)
	}
	if s.held("approval:biz-1") {
		t.Fatal("lock still held after the locked section finished")
	}

	// A second caller on a fresh pooled connection must proceed immediately.
	if err := runLocked(s, "approval:biz-1", func(tx *fakeTx) error { return nil }); err != nil {
		t.Fatalf("second locked section blocked by a leaked lock: %v", err)
	}
}

func TestLockReleasedOnSessionAfterError(t *testing.T) {
	s := newFakeSession()

	wantErr := errors.New("approval failed")
	if err := runLocked(s, "approval:biz-1", func(tx *fakeTx) error { return wantErr }); err != wantErr {
		t.Fatalf("expected the inner error, got %v", err)
	}
	if s.held("approval:biz-1") {
		t.Fatal("lock leaked after a rolled-back section")
	}
}

func TestReleaseThroughFinishedTxLeaksLock(t *testing.T) {
	s := newFakeSession()
	if !s.getLock("approval:biz-1") {
		t.Fatal("could not acquire lock")
	}

	// The broken shape: release deferred on the tx handle, running after
	// Commit. The statement errors client-side and the lock survives.
	tx := &fakeTx{session: s}
	tx.commit()
	if err := tx.releaseLock("approval:biz-1"); err == nil {
		t.Fatal("expected an error releasing through a finished transaction")
	}
	if !s.held("approval:biz-1") {
		t.Fatal("release through a finished transaction should not reach the session")
	}
}
