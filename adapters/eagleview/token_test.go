package eagleview

import (
	"context"
	"testing"
	"time"

	"gutter-api/internal/errors"
)

func TestTokenCacheFetchesOnce(t *testing.T) {
	cache := NewTokenCache()
	fetches := 0
	fetch := func(ctx context.Context) (string, time.Duration, error) {
		fetches++
		return "tok-1", time.Hour, nil
	}

	for i := 0; i < 5; i++ {
		tok, err := cache.Token(context.Background(), fetch)
		if err != nil {
			t.Fatalf("Token returned error: %v", err)
		}
		if tok != "tok-1" {
			t.Fatalf("Token = %q, want tok-1", tok)
		}
	}

	if fetches != 1 {
		t.Fatalf("fetch called %d times, want 1", fetches)
	}
}

func TestTokenCacheRefreshesNearExpiry(t *testing.T) {
	cache := NewTokenCache()
	fetches := 0
	fetch := func(ctx context.Context) (string, time.Duration, error) {
		fetches++
		// Lifetime shorter than the refresh skew: every call refreshes.
		return "tok", 10 * time.Second, nil
	}

	cache.Token(context.Background(), fetch)
	cache.Token(context.Background(), fetch)

	if fetches != 2 {
		t.Fatalf("fetch called %d times, want 2", fetches)
	}
}

func TestTokenCacheInvalidate(t *testing.T) {
	cache := NewTokenCache()
	fetches := 0
	fetch := func(ctx context.Context) (string, time.Duration, error) {
		fetches++
		return "tok", time.Hour, nil
	}

	cache.Token(context.Background(), fetch)
	cache.Invalidate()
	cache.Token(context.Background(), fetch)

	if fetches != 2 {
		t.Fatalf("fetch called %d times after invalidate, want 2", fetches)
	}
}

func TestTokenCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewTokenCache()
	calls := 0
	failing := func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return "", 0, errors.Auth("nope", nil)
	}

	if _, err := cache.Token(context.Background(), failing); err == nil {
		t.Fatal("expected error from failing fetch")
	}

	ok := func(ctx context.Context) (string, time.Duration, error) {
		return "tok", time.Hour, nil
	}
	tok, err := cache.Token(context.Background(), ok)
	if err != nil {
		t.Fatalf("Token returned error after failed fetch: %v", err)
	}
	if tok != "tok" {
		t.Fatalf("Token = %q, want tok", tok)
	}
	if calls != 1 {
		t.Fatalf("failing fetch called %d times, want 1", calls)
	}
}
