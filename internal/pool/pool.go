// Package pool provides typed object pools for short-lived allocations on
// hot paths, such as per-command log records and scratch buffers.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a type-safe wrapper around sync.Pool with an optional reset hook
// and an optional cap on the number of idle objects it tracks.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(*T)
	maxSize int64
	idle    atomic.Int64
}

// NewPool creates a pool that builds new objects with factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool whose objects are passed to reset before
// being handed out again.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get returns a pooled object, or a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.maxSize > 0 && p.idle.Load() > 0 {
		p.idle.Add(-1)
	}
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns obj to the pool. Objects beyond the size cap are dropped.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.maxSize > 0 {
		if p.idle.Load() >= p.maxSize {
			return
		}
		p.idle.Add(1)
	}
	p.pool.Put(obj)
}

// SetMaxSize caps the number of idle objects; 0 means no cap.
func (p *Pool[T]) SetMaxSize(size int) {
	p.maxSize = int64(max(size, 0))
}

// BufferPool pools byte slices in capacity buckets.
type BufferPool struct {
	pools   map[int]*Pool[[]byte]
	buckets []int
}

// NewBufferPool creates a buffer pool with buckets from 64 bytes to 4 KiB.
func NewBufferPool() *BufferPool {
	bp := &BufferPool{
		pools:   make(map[int]*Pool[[]byte]),
		buckets: []int{64, 128, 256, 512, 1024, 2048, 4096},
	}
	for _, capacity := range bp.buckets {
		bp.pools[capacity] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) { *buf = (*buf)[:0] },
		)
	}
	return bp
}

// Get returns an empty buffer with at least minCap capacity. Requests larger
// than the biggest bucket are allocated directly.
func (bp *BufferPool) Get(minCap int) *[]byte {
	bucket, ok := bp.bucketFor(minCap)
	if !ok {
		buf := make([]byte, 0, minCap)
		return &buf
	}
	return bp.pools[bucket].Get()
}

// Put returns buf to the bucket its capacity fills.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	capacity := cap(*buf)
	for i := len(bp.buckets) - 1; i >= 0; i-- {
		if capacity >= bp.buckets[i] {
			if capacity <= bp.buckets[len(bp.buckets)-1] {
				bp.pools[bp.buckets[i]].Put(buf)
			}
			return
		}
	}
}

func (bp *BufferPool) bucketFor(minCap int) (int, bool) {
	for _, bucket := range bp.buckets {
		if bucket >= minCap {
			return bucket, true
		}
	}
	return 0, false
}

// StringSlicePool pools string slices.
type StringSlicePool struct {
	*Pool[[]string]
}

// NewStringSlicePool creates a pool of slices with defaultCap capacity.
func NewStringSlicePool(defaultCap int) *StringSlicePool {
	return &StringSlicePool{
		Pool: NewPoolWithReset(
			func() *[]string {
				slice := make([]string, 0, defaultCap)
				return &slice
			},
			func(slice *[]string) { *slice = (*slice)[:0] },
		),
	}
}

const maxIdleStringSlices = 64

var (
	globalBuffers      = NewBufferPool()
	globalStringSlices = func() *StringSlicePool {
		p := NewStringSlicePool(16)
		p.SetMaxSize(maxIdleStringSlices)
		return p
	}()
)

func GetBuffer(minCap int) *[]byte   { return globalBuffers.Get(minCap) }
func PutBuffer(buf *[]byte)          { globalBuffers.Put(buf) }
func GetStringSlice() *[]string      { return globalStringSlices.Get() }
func PutStringSlice(slice *[]string) { globalStringSlices.Put(slice) }
