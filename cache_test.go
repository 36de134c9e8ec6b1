package pagecache

import (
	"sort"
	"strconv"
	"testing"

	"github.com/arda-db/dbcache/tracing"
)

// fakeRecord is a minimal Record for exercising the five policies without
// any real page storage behind it.
type fakeRecord struct {
	pos       int32
	memory    int
	changed   bool
	removable bool
	read      bool
}

func (r *fakeRecord) Pos() int32      { return r.pos }
func (r *fakeRecord) Memory() int     { return r.memory }
func (r *fakeRecord) IsChanged() bool { return r.changed }
func (r *fakeRecord) CanRemove() bool { return r.removable }
func (r *fakeRecord) BeenRead() bool  { return r.read }

// fakeWriter records every FlushLog/WriteBack call as a trailing
// space-separated log, in the style spec §8's concrete scenarios assume.
type fakeWriter struct {
	log []string
}

func (w *fakeWriter) FlushLog() error {
	w.log = append(w.log, "flush")
	return nil
}

func (w *fakeWriter) WriteBack(r Record) error {
	w.log = append(w.log, strconv.Itoa(int(r.Pos())))
	return nil
}

func (w *fakeWriter) GetTrace() tracing.Tracer { return tracing.Nop() }

func newCleanRecord(pos int32, memory int) *fakeRecord {
	return &fakeRecord{pos: pos, memory: memory, changed: false, removable: true}
}

// --- universal invariants & round-trip laws (spec §8) ---

func TestRoundTripLaws(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewLRU(w, 64)
	if err != nil {
		t.Fatal(err)
	}

	r := newCleanRecord(1, 4)
	if err := c.Put(r); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Find(1)
	if !ok {
		t.Fatal("find after put: record not found")
	}
	AssertEquals(t, got, Record(r))
	if !c.Remove(1) {
		t.Fatal("remove reported false for a resident record")
	}
	if _, ok := c.Find(1); ok {
		t.Fatal("find returned a record after remove")
	}
}

func TestUniversalInvariants(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewLRU(w, 64)
	if err != nil {
		t.Fatal(err)
	}

	var recs []*fakeRecord
	for i := int32(0); i < 10; i++ {
		r := newCleanRecord(i, 4)
		recs = append(recs, r)
		if err := c.Put(r); err != nil {
			t.Fatal(err)
		}
	}

	if got := c.GetMemory(); got < 0 {
		t.Fatalf("negative memory: %d", got)
	}

	for _, r := range recs {
		got, ok := c.Find(r.pos)
		if !ok || got != Record(r) {
			t.Fatalf("find(%d): got %v, %v; want %v", r.pos, got, ok, r)
		}
	}
}

// --- LRU / FIFO / MRU ordering (spec §8 scenarios 1-3, adapted) ---
//
// These use clean (unchanged) records so eviction removes candidates
// immediately instead of buffering them for write-back, which keeps the
// FlushLog/WriteBack log out of the picture. The grouped write-back shape
// is covered directly by TestBatchedDirtyWriteBack below; here, clean
// records isolate and verify each policy's candidate ORDER, which is the
// property these scenarios exist to check.

// buildOverflowCache inserts n records of the given memory cost (clean,
// always removable) into a cache built with maxMemoryKB such that
// capacity settles at exactly MinRecords resident records, one evicted
// per overflowing insert — the same shape as spec §8 scenarios 1-3.
func buildOverflowCache(t *testing.T, newCache func(CacheWriter, int) (Cache, error), n int32) (Cache, *fakeWriter) {
	t.Helper()
	w := &fakeWriter{}
	c, err := newCache(w, 4) // maxMemory = 1024 words, bucket overhead = 32
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < n; i++ {
		if err := c.Put(newCleanRecord(i, 64)); err != nil {
			t.Fatalf("put(%d): %v", i, err)
		}
	}
	return c, w
}

func TestLRUEvictsOldestFirst(t *testing.T) {
	c, _ := buildOverflowCache(t, func(w CacheWriter, kb int) (Cache, error) { return NewLRU(w, kb) }, 20)

	for _, pos := range []int32{0, 1, 2, 3} {
		if _, ok := c.Find(pos); ok {
			t.Errorf("pos %d: expected evicted, still resident", pos)
		}
	}
	for _, pos := range []int32{4, 19} {
		if _, ok := c.Find(pos); !ok {
			t.Errorf("pos %d: expected resident, evicted", pos)
		}
	}
}

func TestFIFODoesNotReorderOnGet(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewFIFO(w, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < 16; i++ {
		if err := c.Put(newCleanRecord(i, 64)); err != nil {
			t.Fatal(err)
		}
	}
	// Repeatedly touch pos 0; FIFO must still evict it first since Get
	// does not bump recency for this policy.
	for i := 0; i < 5; i++ {
		if _, ok := c.Get(0); !ok {
			t.Fatal("expected pos 0 resident before overflow")
		}
	}
	for i := int32(16); i < 20; i++ {
		if err := c.Put(newCleanRecord(i, 64)); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := c.Find(0); ok {
		t.Error("FIFO: repeatedly-read pos 0 should still have been evicted first")
	}
}

func TestMRUEvictsMostRecentlyUsedFirst(t *testing.T) {
	w := &fakeWriter{}
	// A generous initial budget so all 18 inserts settle in without
	// triggering eviction; the narrow budget is applied afterward so the
	// Get in between is the last thing to touch the recency list before
	// eviction actually runs.
	c, err := NewMRU(w, 40)
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < 18; i++ {
		if err := c.Put(newCleanRecord(i, 64)); err != nil {
			t.Fatal(err)
		}
	}

	// Touching pos 5 makes it the most recently used entry.
	if _, ok := c.Get(5); !ok {
		t.Fatal("expected pos 5 resident")
	}

	if err := c.SetMaxMemory(4); err != nil {
		t.Fatal(err)
	}

	// MRU evicts from the recent end backward: the just-touched pos 5
	// goes first, ahead of entries untouched since insertion (e.g. pos 0).
	if _, ok := c.Find(5); ok {
		t.Error("pos 5: expected evicted first under MRU after being the most recently used")
	}
	if _, ok := c.Find(0); !ok {
		t.Error("pos 0: expected resident, untouched entries should outlive the most recently used one")
	}
}

func TestMRUEvictsFreshlyInsertedRecordImmediately(t *testing.T) {
	// Insertion itself counts as use: a newly Put record lands at the
	// recent end, which is exactly where MRU's eviction walk starts, so
	// an overflowing Put tends to evict the record it just added.
	c, _ := buildOverflowCache(t, func(w CacheWriter, kb int) (Cache, error) { return NewMRU(w, kb) }, 20)

	for pos := int32(16); pos < 20; pos++ {
		if _, ok := c.Find(pos); ok {
			t.Errorf("pos %d: expected evicted under MRU immediately after insertion", pos)
		}
	}
	for pos := int32(0); pos < 16; pos++ {
		if _, ok := c.Find(pos); !ok {
			t.Errorf("pos %d: expected resident, never touched again after its initial insert", pos)
		}
	}
}

// --- Clock second-chance semantics (spec §4.2, §9) ---

func TestClockSkipsUnreadCandidatesForever(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewClock(w, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < 20; i++ {
		r := &fakeRecord{pos: i, memory: 64, changed: false, removable: true, read: false}
		if err := c.Put(r); err != nil {
			t.Fatal(err)
		}
	}
	// No candidate ever has BeenRead()==true, so eviction can never make
	// progress; the bound-traversal rule must abort without error rather
	// than looping forever, panicking, or quietly dropping a record.
	for i := int32(0); i < 20; i++ {
		if _, ok := c.Find(i); !ok {
			t.Errorf("pos %d: evicted despite BeenRead()==false on every candidate", i)
		}
	}
}

func TestClockEvictsReadCandidates(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewClock(w, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < 16; i++ {
		r := &fakeRecord{pos: i, memory: 64, changed: false, removable: true, read: true}
		if err := c.Put(r); err != nil {
			t.Fatal(err)
		}
	}
	overflow := &fakeRecord{pos: 16, memory: 64, changed: false, removable: true, read: true}
	if err := c.Put(overflow); err != nil {
		t.Fatal(err)
	}
	// With every candidate's second-chance bit set, Clock sweeps from its
	// persistent hand (the list head) and evicts the first eligible
	// candidate it meets, same as LRU's oldest-first order here.
	if _, ok := c.Find(0); ok {
		t.Error("pos 0: expected evicted, Clock made no progress despite all candidates being read-eligible")
	}
	for _, pos := range []int32{1, 16} {
		if _, ok := c.Find(pos); !ok {
			t.Errorf("pos %d: expected resident", pos)
		}
	}
}

// --- Random policy: skip non-removable, never repeat a buffered pick ---

func TestRandomNeverEvictsNonRemovable(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewRandom(w, 4)
	if err != nil {
		t.Fatal(err)
	}
	pinned := &fakeRecord{pos: 0, memory: 64, changed: false, removable: false, read: false}
	if err := c.Put(pinned); err != nil {
		t.Fatal(err)
	}
	for i := int32(1); i < 20; i++ {
		if err := c.Put(newCleanRecord(i, 64)); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := c.Find(0); !ok {
		t.Error("random evicted a non-removable (pinned) record")
	}
}

// --- grouped dirty write-back (spec §8 scenario 4's shape) ---

func TestBatchedDirtyWriteBack(t *testing.T) {
	w := &fakeWriter{}
	c, err := NewLRU(w, 4)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(0); i < 16; i++ {
		r := &fakeRecord{pos: i, memory: 64, changed: true, removable: true}
		if err := c.Put(r); err != nil {
			t.Fatal(err)
		}
	}
	// This overflowing insert is itself dirty too; the oldest dirty record
	// is buffered (a buffered record already counts as gone, which brings
	// the count back to MinRecords) and flushed as a group: a single
	// FlushLog call followed by WriteBack in ascending position order.
	if err := c.Put(&fakeRecord{pos: 16, memory: 64, changed: true, removable: true}); err != nil {
		t.Fatal(err)
	}

	if len(w.log) == 0 || w.log[0] != "flush" {
		t.Fatalf("expected log to start with a single flush, got %v", w.log)
	}
	flushes := 0
	for _, e := range w.log {
		if e == "flush" {
			flushes++
		}
	}
	if flushes != 1 {
		t.Errorf("expected exactly one FlushLog call for the grouped write-back, got %d", flushes)
	}

	var written []int
	for _, e := range w.log[1:] {
		n, err := strconv.Atoi(e)
		if err != nil {
			t.Fatalf("unexpected log entry %q", e)
		}
		written = append(written, n)
	}
	if !sort.IntsAreSorted(written) {
		t.Errorf("expected write-back order to be ascending by position, got %v", written)
	}
}

// --- factory ---

func TestFactoryUnknownSelector(t *testing.T) {
	w := &fakeWriter{}
	if _, err := NewCache("Bogus", w, 64); err == nil {
		t.Fatal("expected an error for an unknown cache type selector")
	}
}

func TestFactorySelectors(t *testing.T) {
	w := &fakeWriter{}
	for _, name := range []string{"LRU", "FIFO", "MRU", "Clock", "Random"} {
		if _, err := NewCache(name, w, 64); err != nil {
			t.Errorf("NewCache(%q): %v", name, err)
		}
	}
}

// --- second-level wrapper ---

func TestSecondLevelPromotesSurvivorOfBaseEviction(t *testing.T) {
	w := &fakeWriter{}
	base, err := NewLRU(w, 4) // same overflow shape as TestLRUEvictsOldestFirst
	if err != nil {
		t.Fatal(err)
	}

	toPtr := func(r Record) (*fakeRecord, bool) {
		fr, ok := r.(*fakeRecord)
		return fr, ok
	}
	fromPtr := func(p *fakeRecord) Record { return p }

	sc := NewSecondLevel(base, toPtr, fromPtr)

	var survivor *fakeRecord
	for i := int32(0); i < 20; i++ {
		r := newCleanRecord(i, 64)
		if i == 1 {
			survivor = r // kept reachable by this local, so its weak ref stays live
		}
		if err := sc.Put(r); err != nil {
			t.Fatal(err)
		}
	}

	// pos 1 was evicted from the base LRU during the overflow above (see
	// TestLRUEvictsOldestFirst), but this test still holds survivor live.
	if _, ok := base.Find(1); ok {
		t.Fatal("test setup: pos 1 should have been evicted from the base cache")
	}
	got, ok := sc.Get(1)
	if !ok {
		t.Fatal("second-level cache lost a still-live weak reference to an evicted record")
	}
	if got != Record(survivor) {
		t.Fatalf("got %v, want %v", got, survivor)
	}
	// Get promotes a surviving record back into the base cache.
	if _, ok := base.Find(1); !ok {
		t.Error("second-level Get should have promoted the survivor back into the base cache")
	}
}
