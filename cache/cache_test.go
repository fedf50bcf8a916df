package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"saythenumber/failure"
	"saythenumber/shared/types"
)

type countingConverter struct {
	now, delay int
	env        *types.Envelope
	err        error
}

func (c *countingConverter) ConvertNow(ctx context.Context, literal string) (*types.Envelope, error) {
	c.now++
	return c.env, c.err
}

func (c *countingConverter) ConvertWithDelay(ctx context.Context, literal string) (*types.Envelope, error) {
	c.delay++
	return c.env, c.err
}

type mapStore struct {
	m      map[string]string
	getErr error
}

func (s *mapStore) Get(ctx context.Context, literal string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	w, ok := s.m[literal]
	return w, ok, nil
}

func (s *mapStore) Set(ctx context.Context, literal, words string) error {
	s.m[literal] = words
	return nil
}

func TestCachingConverterHitSkipsService(t *testing.T) {
	next := &countingConverter{env: &types.Envelope{Status: "ok", NumInEnglish: "forty two"}}
	store := &mapStore{m: map[string]string{}}
	c := NewCachingConverter(next, store, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env, err := c.ConvertNow(ctx, "42")
		if err != nil {
			t.Fatalf("ConvertNow: %v", err)
		}
		if env.NumInEnglish != "forty two" {
			t.Fatalf("ConvertNow(42) = %q; want %q", env.NumInEnglish, "forty two")
		}
	}
	if next.now != 1 {
		t.Fatalf("service called %d times; want 1", next.now)
	}
}

func TestCachingConverterDelayAlwaysCallsService(t *testing.T) {
	next := &countingConverter{env: &types.Envelope{Status: "ok", NumInEnglish: "seven"}}
	store := &mapStore{m: map[string]string{"7": "seven"}}
	c := NewCachingConverter(next, store, nil)

	if _, err := c.ConvertWithDelay(context.Background(), "7"); err != nil {
		t.Fatalf("ConvertWithDelay: %v", err)
	}
	if next.delay != 1 {
		t.Fatalf("delayed service called %d times; want 1", next.delay)
	}
}

func TestCachingConverterDoesNotStoreFailures(t *testing.T) {
	store := &mapStore{m: map[string]string{}}
	ctx := context.Background()

	failing := NewCachingConverter(&countingConverter{err: &failure.ResponseError{StatusCode: 400}}, store, nil)
	_, _ = failing.ConvertNow(ctx, "1")

	odd := NewCachingConverter(&countingConverter{env: &types.Envelope{Status: "unknown"}}, store, nil)
	_, _ = odd.ConvertNow(ctx, "2")

	if len(store.m) != 0 {
		t.Fatalf("store = %v; want empty", store.m)
	}
}

func TestCachingConverterSurvivesStoreErrors(t *testing.T) {
	next := &countingConverter{env: &types.Envelope{Status: "ok", NumInEnglish: "one"}}
	store := &mapStore{m: map[string]string{}, getErr: errors.New("redis down")}

	env, err := NewCachingConverter(next, store, nil).ConvertNow(context.Background(), "1")
	if err != nil || env.NumInEnglish != "one" {
		t.Fatalf("ConvertNow = %+v, %v; want one, nil", env, err)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "-3.14"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}
	if err := store.Set(ctx, "-3.14", "negative three point one four"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	words, ok, err := store.Get(ctx, "-3.14")
	if err != nil || !ok || words != "negative three point one four" {
		t.Fatalf("Get = %q, %v, %v", words, ok, err)
	}
	if ttl := mr.TTL(DefaultPrefix + "-3.14"); ttl != time.Minute {
		t.Fatalf("TTL = %v; want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "-3.14"); ok {
		t.Fatalf("entry survived its TTL")
	}
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr}); err == nil {
		t.Fatalf("NewRedisStore against a closed server succeeded")
	}
}
