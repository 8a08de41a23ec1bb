// Package audit periodically exports a checkpoint snapshot of the
// allocator's state to an S3-compatible bucket, for operator diagnostics.
//
// This is pure side-channel: nothing on the startup or request path ever
// reads a checkpoint back, so an exporter outage or a malformed object in
// the bucket cannot affect token issuance or the uniqueness/monotonicity
// invariants the allocator enforces.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/pkg/sequencer"
)

// NewS3Client builds an S3 client for the given region using the default
// AWS credential chain (environment, shared config, or instance role).
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("audit: failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Checkpoint is the snapshot shape uploaded to S3 on every export tick.
type Checkpoint struct {
	Tail              int64     `json:"tail"`
	LeaseBoundary     int64     `json:"lease_boundary"`
	StreamCount       int       `json:"stream_count"`
	ConflictCacheSize int       `json:"conflict_cache_size"`
	Timestamp         time.Time `json:"timestamp"`
}

// SnapshotSource is the subset of *sequencer.Allocator the exporter needs.
// Exists so tests can supply a stub without building a real allocator.
type SnapshotSource interface {
	Snapshot() sequencer.Snapshot
}

// Config configures the checkpoint exporter.
type Config struct {
	Client   *s3.Client
	Bucket   string
	Prefix   string
	Interval time.Duration
}

// Exporter periodically uploads a Checkpoint for allocator to an S3
// bucket until its context is cancelled.
type Exporter struct {
	client    *s3.Client
	bucket    string
	prefix    string
	interval  time.Duration
	allocator SnapshotSource
}

// NewExporter constructs an Exporter. Bucket and Client are required.
func NewExporter(cfg Config, allocator SnapshotSource) (*Exporter, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("audit: S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("audit: bucket name is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	return &Exporter{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		interval:  interval,
		allocator: allocator,
	}, nil
}

// Run uploads a checkpoint every interval until ctx is cancelled. Intended
// to be started as a goroutine; a failed upload is logged and does not
// stop subsequent ticks.
func (e *Exporter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.exportOnce(ctx); err != nil {
				logger.Error("checkpoint export failed", "error", err)
			}
		}
	}
}

func (e *Exporter) exportOnce(ctx context.Context) error {
	snap := e.allocator.Snapshot()

	checkpoint := Checkpoint{
		Tail:              snap.GlobalTail,
		LeaseBoundary:     snap.LeaseBoundary,
		StreamCount:       snap.StreamCount,
		ConflictCacheSize: snap.ConflictCacheSize,
		Timestamp:         time.Now().UTC(),
	}

	body, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	key := e.objectKey(checkpoint.Timestamp)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload checkpoint to s3://%s/%s: %w", e.bucket, key, err)
	}

	logger.Debug("checkpoint exported", "bucket", e.bucket, "key", key)
	return nil
}

// objectKey derives the S3 key for a checkpoint taken at ts, grouping
// objects under the configured prefix by UTC date.
func (e *Exporter) objectKey(ts time.Time) string {
	name := fmt.Sprintf("%s.json", ts.Format("20060102T150405Z"))
	if e.prefix == "" {
		return name
	}
	return e.prefix + "/" + ts.Format("2006-01-02") + "/" + name
}
