// Package benchmarks holds testing.B suites for Core A's five
// replacement policies and Core B's segmented LIRS cache.
package benchmarks

import (
	"testing"

	"github.com/arda-db/dbcache"
	"github.com/arda-db/dbcache/tracing"
)

type benchRecord struct {
	pos    int32
	memory int
}

func (r *benchRecord) Pos() int32      { return r.pos }
func (r *benchRecord) Memory() int     { return r.memory }
func (r *benchRecord) IsChanged() bool { return false }
func (r *benchRecord) CanRemove() bool { return true }
func (r *benchRecord) BeenRead() bool  { return true }

type nopWriter struct{}

func (nopWriter) FlushLog() error                  { return nil }
func (nopWriter) WriteBack(pagecache.Record) error { return nil }
func (nopWriter) GetTrace() tracing.Tracer         { return tracing.Nop() }

var policyConstructors = map[string]func(pagecache.CacheWriter, int) (pagecache.Cache, error){
	"LRU":    func(w pagecache.CacheWriter, kb int) (pagecache.Cache, error) { return pagecache.NewLRU(w, kb) },
	"FIFO":   func(w pagecache.CacheWriter, kb int) (pagecache.Cache, error) { return pagecache.NewFIFO(w, kb) },
	"MRU":    func(w pagecache.CacheWriter, kb int) (pagecache.Cache, error) { return pagecache.NewMRU(w, kb) },
	"Clock":  func(w pagecache.CacheWriter, kb int) (pagecache.Cache, error) { return pagecache.NewClock(w, kb) },
	"Random": func(w pagecache.CacheWriter, kb int) (pagecache.Cache, error) { return pagecache.NewRandom(w, kb) },
}

// BenchmarkPut measures steady-state Put throughput under a fixed memory
// budget, forcing every policy into its eviction path repeatedly.
func BenchmarkPut(b *testing.B) {
	for name, newCache := range policyConstructors {
		b.Run(name, func(b *testing.B) {
			c, err := newCache(nopWriter{}, 1024)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				pos := int32(i % 1_000_000)
				if _, ok := c.Find(pos); ok {
					continue
				}
				if err := c.Put(&benchRecord{pos: pos, memory: 64}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGetHit measures lookup cost on a warm, fully resident cache.
func BenchmarkGetHit(b *testing.B) {
	const n = 1000
	for name, newCache := range policyConstructors {
		b.Run(name, func(b *testing.B) {
			c, err := newCache(nopWriter{}, 1<<20)
			if err != nil {
				b.Fatal(err)
			}
			for i := int32(0); i < n; i++ {
				if err := c.Put(&benchRecord{pos: i, memory: 4}); err != nil {
					b.Fatal(err)
				}
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Get(int32(i % n))
			}
		})
	}
}
