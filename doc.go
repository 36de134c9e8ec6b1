// Package pagecache implements a pluggable single-threaded page cache: a
// bounded, memory-budgeted store of fixed records keyed by position, with
// five interchangeable replacement policies (LRU, FIFO, MRU, Clock, Random)
// sharing a common hash bucket index, eviction loop, and write-back path
// through a caller-supplied CacheWriter.
package pagecache
