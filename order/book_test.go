package order

import (
	"testing"
	"time"
)

func TestBookAddGetRemove(t *testing.T) {
	b := NewBook()
	o := New(SideBuy, 100.0, 10.0, time.Now())
	b.Add(o)
	got, ok := b.Get(o.ID)
	if !ok || got.Price != 100.0 {
		t.Fatalf("get failed: %+v %v", got, ok)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 order, got %d", b.Len())
	}
	if !b.Remove(o.ID) {
		t.Fatal("remove should report existing order")
	}
	if b.Remove(o.ID) {
		t.Fatal("double remove should report missing order")
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty book, got %d", b.Len())
	}
}

func TestBookExpire(t *testing.T) {
	b := NewBook()
	now := time.Now()
	ttl := 10 * time.Second

	stale := New(SideBuy, 100.0, 10.0, now.Add(-11*time.Second))
	edge := New(SideSell, 101.0, 10.0, now.Add(-ttl)) // age == ttl 也过期
	fresh := New(SideSell, 102.0, 10.0, now.Add(-time.Second))
	b.Add(stale)
	b.Add(edge)
	b.Add(fresh)

	if removed := b.Expire(now, ttl); removed != 2 {
		t.Fatalf("expected 2 expired, got %d", removed)
	}
	// 过期后剩余订单必须满足 age < ttl
	for _, o := range b.List() {
		if o.Age(now) >= ttl {
			t.Fatalf("stale order survived expiry: %+v", o)
		}
	}
	if _, ok := b.Get(fresh.ID); !ok {
		t.Fatal("fresh order should survive")
	}
}

func TestBookListIsCopy(t *testing.T) {
	b := NewBook()
	o := New(SideBuy, 100.0, 10.0, time.Now())
	b.Add(o)
	list := b.List()
	list[0].Price = 1.0
	got, _ := b.Get(o.ID)
	if got.Price != 100.0 {
		t.Fatalf("List leaked internal state: %+v", got)
	}
}
