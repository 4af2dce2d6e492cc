package order

import (
	"sync"
	"time"
)

// Book 记录自己的全部挂单，支持查询与按 TTL 过期。
// 仅有三条变更路径：插入、成交移除、TTL 过期。
type Book struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewBook() *Book {
	return &Book{orders: make(map[string]Order)}
}

// Add 登记一张挂单。
func (b *Book) Add(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[o.ID] = o
}

// Remove 按 ID 移除，返回是否存在。
func (b *Book) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.orders[id]; !ok {
		return false
	}
	delete(b.orders, id)
	return true
}

// Get 按 ID 查询。
func (b *Book) Get(id string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

// List 返回全部挂单（拷贝），调用方可安全迭代。
func (b *Book) List() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		res = append(res, o)
	}
	return res
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// Expire 移除所有存活时长 >= ttl 的挂单，返回移除数量。
// 每个周期在重新铺单前调用一次。
func (b *Book) Expire(now time.Time, ttl time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for id, o := range b.orders {
		if now.Sub(o.CreatedAt) >= ttl {
			delete(b.orders, id)
			removed++
		}
	}
	return removed
}
