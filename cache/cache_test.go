package cache

import (
	"strconv"
	"testing"

	"github.com/chirst/memdb/compiler"
)

func stmt(n int) compiler.Stmt {
	return &compiler.CreateStmt{TableName: strconv.Itoa(n)}
}

func TestCache(t *testing.T) {
	c := NewLRU(5)
	c.Add("5", stmt(5))
	c.Add("8", stmt(8))
	c.Add("12", stmt(12))
	c.Add("21", stmt(21))
	c.Add("240", stmt(240))

	c.Get("5")
	c.Get("12")
	c.Get("8")
	c.Get("240")

	c.Add("241", stmt(241))

	if cl := c.Len(); cl != 5 {
		t.Fatalf("expected cache size 5 got %d", cl)
	}
	for _, k := range []string{"5", "12", "8", "240", "241"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected cache[%s] to be ok", k)
		}
	}
	if _, ok := c.Get("21"); ok {
		t.Fatal("expected cache[21] to be evicted")
	}
}

func TestCacheReturnsStatement(t *testing.T) {
	c := NewLRU(2)
	s := stmt(1)
	c.Add("a", s)
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != s {
		t.Fatalf("expected %#v got %#v", s, got)
	}
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected removed key to miss")
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit 1 miss got %d %d", hits, misses)
	}
}
