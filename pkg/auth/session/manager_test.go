package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.values == nil {
		f.values = map[string]string{}
	}
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if val, ok := f.values[key]; ok {
		return val, nil
	}
	return "", redislib.Nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "test:session:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := &fakeStore{}
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if err := mgr.Create(ctx, accessID, "user-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected live session after create")
	}

	if err := mgr.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, err = mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke failed: %v", err)
	}
	if ok {
		t.Fatal("expected session gone after revoke")
	}
}

func TestCreateRejectsReusedAccessID(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	accessID := NewAccessID()
	if err := mgr.Create(ctx, accessID, "user-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := mgr.Create(ctx, accessID, "user-2"); err == nil {
		t.Fatal("expected reused access id to be rejected")
	}

	// The original session must be untouched.
	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected original session to survive the rejected reuse")
	}
}

func TestHasSessionEmptyID(t *testing.T) {
	mgr, _ := newTestManager()
	ok, err := mgr.HasSession(context.Background(), " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("blank access id should never have a session")
	}
}
