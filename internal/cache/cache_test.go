package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/phonemask/internal/phonemizer"
	"codeberg.org/snonux/phonemask/internal/testutil"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache", "phonemask.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}

	if err := store.Put(ctx, "k", "həlˈoʊ"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || value != "həlˈoʊ" {
		t.Errorf("Get(k) = %q, %v, %v", value, ok, err)
	}

	if err := store.Put(ctx, "k", "hɛlˈoʊ"); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}
	if value, _, _ := store.Get(ctx, "k"); value != "hɛlˈoʊ" {
		t.Errorf("Expected overwritten value, got %q", value)
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phonemask.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected database file: %v", err)
	}

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer store.Close()

	if value, ok, _ := store.Get(ctx, "k"); !ok || value != "v" {
		t.Errorf("Expected value to survive reopen, got %q, %v", value, ok)
	}
}

func TestOpen(t *testing.T) {
	for _, driver := range []string{"", "none"} {
		store, err := Open(driver, "")
		if err != nil || store != nil {
			t.Errorf("Open(%q) = %v, %v; want nil, nil", driver, store, err)
		}
	}

	store, err := Open("sqlite", filepath.Join(t.TempDir(), "c.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	store.Close()

	if _, err := Open("memcached", ""); err == nil {
		t.Error("Expected error for unknown driver")
	}
	if _, err := Open("redis", "not a url"); err == nil {
		t.Error("Expected error for invalid redis URL")
	}
}

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	store, err := NewRedisStore(url)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "test-key", "tˈɛst"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if value, ok, err := store.Get(ctx, "test-key"); err != nil || !ok || value != "tˈɛst" {
		t.Errorf("Get() = %q, %v, %v", value, ok, err)
	}

	store.WithTTL(time.Minute)
	if err := store.Put(ctx, "ttl-key", "tˈiːtiːˈɛl"); err != nil {
		t.Fatalf("Put() with TTL error = %v", err)
	}
	ttl, err := store.client.TTL(ctx, redisKeyPrefix+"ttl-key").Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("TTL = %s, want within one minute", ttl)
	}
}

func TestBackend_ServesHitsFromStore(t *testing.T) {
	inner := testutil.NewMockBackend(nil)
	inner.Transform = testutil.Upper
	b := NewBackend(inner, newSQLite(t), phonemizer.DefaultOptions(), nil)
	ctx := context.Background()

	got, err := b.Phonemize(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Phonemize() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Phonemize() = %v", got)
	}

	got, err = b.Phonemize(ctx, []string{"b", "c", "a"})
	if err != nil {
		t.Fatalf("Phonemize() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Errorf("Phonemize() = %v", got)
	}

	calls := inner.Calls()
	want := [][]string{{"a", "b"}, {"c"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("inner calls = %v, want %v", calls, want)
	}

	if _, err := b.Phonemize(ctx, []string{"a", "c"}); err != nil {
		t.Fatalf("Phonemize() error = %v", err)
	}
	if inner.CallCount() != 2 {
		t.Errorf("Fully cached batch must not call the backend, got %d calls", inner.CallCount())
	}
}

func TestBackend_KeyIncludesOptions(t *testing.T) {
	store := newSQLite(t)
	inner := testutil.NewMockBackend(nil)
	inner.Transform = testutil.Upper
	ctx := context.Background()

	opts := phonemizer.DefaultOptions()
	if _, err := NewBackend(inner, store, opts, nil).Phonemize(ctx, []string{"a"}); err != nil {
		t.Fatal(err)
	}

	opts.WithStress = false
	if _, err := NewBackend(inner, store, opts, nil).Phonemize(ctx, []string{"a"}); err != nil {
		t.Fatal(err)
	}

	if inner.CallCount() != 2 {
		t.Errorf("Different options must not share entries, got %d calls", inner.CallCount())
	}
}

func TestBackend_InnerErrorNotCached(t *testing.T) {
	boom := errors.New("engine down")
	inner := testutil.NewMockBackend(nil)
	inner.Errors["a"] = boom
	b := NewBackend(inner, newSQLite(t), phonemizer.DefaultOptions(), nil)

	if _, err := b.Phonemize(context.Background(), []string{"a"}); !errors.Is(err, boom) {
		t.Fatalf("Expected engine error, got %v", err)
	}

	delete(inner.Errors, "a")
	inner.Transform = testutil.Upper
	got, err := b.Phonemize(context.Background(), []string{"a"})
	if err != nil || got[0] != "A" {
		t.Errorf("Phonemize() = %v, %v", got, err)
	}
}

func TestBackend_FallbackAnswersKeptApart(t *testing.T) {
	store := newSQLite(t)
	opts := phonemizer.DefaultOptions()
	ctx := context.Background()

	fragment := "<|begin_real_number|> 42"
	primary := testutil.NewMockBackend(nil)
	primary.BackendName = "primary"
	primary.Transform = testutil.Upper
	primary.Errors[fragment] = errors.New("engine hiccup")

	fallback := testutil.NewMockBackend(nil)
	fallback.BackendName = "fallback"
	fallback.Transform = func(s string) string { return "fb:" + strings.ToLower(s) }

	chain := phonemizer.NewFallbackBackend(
		NewBackend(primary, store, opts, nil),
		NewBackend(fallback, store, opts, nil),
		nil,
	)
	ph, err := phonemizer.New(chain, phonemizer.Config{
		Options:          opts,
		PreservePatterns: []string{`\d+`},
	}, nil)
	if err != nil {
		t.Fatalf("phonemizer.New() error = %v", err)
	}

	// The fragment comes from the fallback, the sentence from the primary,
	// so the first run cannot restore.
	if _, err := ph.Phonemize(ctx, []string{"I have 42 apples"}); err == nil {
		t.Fatal("Expected mixed backends to fail restoration")
	}

	delete(primary.Errors, fragment)
	got, err := ph.Phonemize(ctx, []string{"I have 42 apples"})
	if err != nil {
		t.Fatalf("Phonemize() after recovery error = %v", err)
	}
	if got[0] != "I HAVE 42 APPLES" {
		t.Errorf("Phonemize() = %q, want %q", got[0], "I HAVE 42 APPLES")
	}
}
