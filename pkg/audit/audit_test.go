package audit

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/sequencer/pkg/sequencer"
)

type stubSource struct {
	snap sequencer.Snapshot
}

func (s stubSource) Snapshot() sequencer.Snapshot {
	return s.snap
}

func TestNewExporterRequiresClientAndBucket(t *testing.T) {
	if _, err := NewExporter(Config{Bucket: "checkpoints"}, stubSource{}); err == nil {
		t.Fatal("expected error for missing client")
	}

	if _, err := NewExporter(Config{Client: &s3.Client{}}, stubSource{}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestNewExporterDefaultsInterval(t *testing.T) {
	exp, err := NewExporter(Config{Client: &s3.Client{}, Bucket: "checkpoints"}, stubSource{})
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}
	if exp.interval != time.Hour {
		t.Fatalf("interval = %v, want 1h default", exp.interval)
	}
}

func TestObjectKeyGroupsByDate(t *testing.T) {
	exp, err := NewExporter(Config{Client: &s3.Client{}, Bucket: "checkpoints", Prefix: "sequencer/checkpoints"}, stubSource{})
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	ts := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	key := exp.objectKey(ts)
	want := "sequencer/checkpoints/2026-03-05/20260305T103000Z.json"
	if key != want {
		t.Fatalf("objectKey = %q, want %q", key, want)
	}
}

func TestObjectKeyWithoutPrefix(t *testing.T) {
	exp, err := NewExporter(Config{Client: &s3.Client{}, Bucket: "checkpoints"}, stubSource{})
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	ts := time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)
	key := exp.objectKey(ts)
	want := "20260305T103000Z.json"
	if key != want {
		t.Fatalf("objectKey = %q, want %q", key, want)
	}
}
