package buildcache

import (
	"errors"
	"os"
	"testing"
)

func TestPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key("main", []byte("func main() {}"))
	if e, err := c.Get(key); err != nil || e != nil {
		t.Fatalf("empty cache Get = %v, %v", e, err)
	}
	if err := c.Put(key, &Entry{Module: "main", Unit: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	e, err := c.Get(key)
	if err != nil || e == nil {
		t.Fatalf("Get = %v, %v", e, err)
	}
	if e.Module != "main" || string(e.Unit) != "\x01\x02\x03" {
		t.Fatalf("entry = %+v", e)
	}
	if err := c.Drop(key); err != nil {
		t.Fatal(err)
	}
	if e, _ := c.Get(key); e != nil {
		t.Fatalf("entry survived Drop")
	}
}

func TestKeyDependsOnModuleAndSource(t *testing.T) {
	src := []byte("x")
	if Key("a", src) == Key("b", src) {
		t.Fatalf("module name not part of key")
	}
	if Key("a", src) == Key("a", []byte("y")) {
		t.Fatalf("source not part of key")
	}
}

func TestCorruptEntry(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := Key("m", nil)
	if err := c.Put(key, &Entry{Unit: []byte{0}}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.pathFor(key), []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(key); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Get err = %v, want ErrCorrupt", err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	if err := c.Put(Key("m", nil), &Entry{}); err != nil {
		t.Fatal(err)
	}
	if e, err := c.Get(Key("m", nil)); e != nil || err != nil {
		t.Fatalf("nil cache Get = %v %v", e, err)
	}
}
