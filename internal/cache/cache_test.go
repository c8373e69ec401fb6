package cache

import (
	"testing"

	"VolumeScope/internal/model"
)

func TestCache_PutGetInvalidate(t *testing.T) {
	c := New()
	k1 := Key{SeriesHash: 1, Config: "profile"}
	k2 := Key{SeriesHash: 1, Config: "channels"}
	k3 := Key{SeriesHash: 2, Config: "profile"}

	if _, ok := c.Get(k1); ok {
		t.Error("empty cache must miss")
	}

	c.Put(k1, "a")
	c.Put(k2, "b")
	c.Put(k3, "c")
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}

	v, ok := c.Get(k2)
	if !ok || v.(string) != "b" {
		t.Errorf("expected hit with %q, got %v %v", "b", v, ok)
	}

	// Dropping one series leaves the other untouched.
	c.Invalidate(1)
	if _, ok := c.Get(k1); ok {
		t.Error("k1 should be gone")
	}
	if _, ok := c.Get(k3); !ok {
		t.Error("k3 should survive")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", c.Len())
	}
}

func TestHashSeries(t *testing.T) {
	a := []model.PricePoint{
		{Date: "2024-01-01", Close: 100, Volume: 10},
		{Date: "2024-01-02", Close: 101, Volume: 20},
	}
	b := []model.PricePoint{
		{Date: "2024-01-01", Close: 100, Volume: 10},
		{Date: "2024-01-02", Close: 101, Volume: 20},
	}
	if HashSeries(a) != HashSeries(b) {
		t.Error("identical series must hash equal")
	}

	b[1].Close = 101.0001
	if HashSeries(a) == HashSeries(b) {
		t.Error("changed close must change the hash")
	}
}
