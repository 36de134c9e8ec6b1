package rediswriter

import (
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
)

type fakeRecord struct {
	pos  int32
	data []byte
}

func (r *fakeRecord) Pos() int32      { return r.pos }
func (r *fakeRecord) Memory() int     { return len(r.data) / 4 }
func (r *fakeRecord) IsChanged() bool { return true }
func (r *fakeRecord) CanRemove() bool { return true }
func (r *fakeRecord) BeenRead() bool  { return false }
func (r *fakeRecord) Bytes() []byte   { return r.data }

func TestWriteBack(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set, skipping integration test")
	}

	conn := redis.NewClient(&redis.Options{Addr: addr})
	w := New(conn, nil)

	if err := w.FlushLog(); err != nil {
		t.Fatalf("FlushLog: %v", err)
	}

	rec := &fakeRecord{pos: 7, data: []byte("hello page")}
	if err := w.WriteBack(rec); err != nil {
		t.Fatalf("WriteBack: %v", err)
	}
}

func TestWriteBackRejectsNonPayload(t *testing.T) {
	w := New(nil, nil)
	err := w.WriteBack(nonPayloadRecord{})
	if err == nil {
		t.Fatal("expected error for record without Payload capability")
	}
}

type nonPayloadRecord struct{}

func (nonPayloadRecord) Pos() int32      { return 0 }
func (nonPayloadRecord) Memory() int     { return 1 }
func (nonPayloadRecord) IsChanged() bool { return false }
func (nonPayloadRecord) CanRemove() bool { return true }
func (nonPayloadRecord) BeenRead() bool  { return false }
