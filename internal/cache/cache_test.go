package cache

import (
	"context"
	"errors"
	"testing"

	"tag-engine/internal/codec"
	"tag-engine/internal/store"
)

type fakeFinder struct {
	segments []store.Segment
	lookups  int
	err      error
}

func (f *fakeFinder) FindExact(ctx context.Context, hash string) ([]store.Segment, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	var out []store.Segment
	for _, s := range f.segments {
		if s.Keys.SourceHash == hash {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeFinder) All(ctx context.Context) ([]store.Segment, error) {
	return f.segments, f.err
}

func TestGetCachesStoreHits(t *testing.T) {
	seg := store.NewSegment("1", codec.Parse("Open {0}"), codec.Parse("Ouvrir {0}"))
	finder := &fakeFinder{segments: []store.Segment{seg}}
	c := NewMatchCache(finder)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, ok := c.Get(ctx, seg.Keys.SourceHash)
		if !ok || got.Text() != "Ouvrir {0}" {
			t.Fatalf("expected hit, got %v %v", got, ok)
		}
	}
	if finder.lookups != 1 {
		t.Errorf("expected a single store lookup, got %d", finder.lookups)
	}

	if _, ok := c.Get(ctx, "unknown"); ok {
		t.Error("expected miss")
	}
}

func TestGetStoreError(t *testing.T) {
	c := NewMatchCache(&fakeFinder{err: errors.New("down")})
	if _, ok := c.Get(context.Background(), "x"); ok {
		t.Error("expected miss on store error")
	}
}

func TestPreloadAndSet(t *testing.T) {
	a := store.NewSegment("1", codec.Parse("Yes"), codec.Parse("Oui"))
	b := store.NewSegment("2", codec.Parse("yes"), codec.Parse("Si"))
	finder := &fakeFinder{segments: []store.Segment{a, b}}
	c := NewMatchCache(finder)

	if err := c.Preload(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get(context.Background(), a.Keys.SourceHash)
	if !ok || got.Text() != "Oui" {
		t.Errorf("expected first stored target, got %v", got)
	}
	if finder.lookups != 0 {
		t.Error("expected preload to avoid store lookups")
	}

	c.Set("manual", codec.Parse("Manuel"))
	if got, ok := c.Get(context.Background(), "manual"); !ok || got.Text() != "Manuel" {
		t.Errorf("expected manual entry, got %v", got)
	}
}
