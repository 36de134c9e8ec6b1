// Package lirs implements a concurrent, sharded, scan-resistant cache
// approximating LIRS (Low Inter-reference Recency Set): hot, resident
// cold, and non-resident entry classes, a recency stack, and two cold
// FIFO queues, replicated per segment behind its own lock.
package lirs
