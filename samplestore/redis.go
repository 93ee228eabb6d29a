// Package samplestore is the Redis-backed adapter for bulk signal
// payloads. Each signal's samples and timestamps are stored together as
// one JSON blob keyed by signal id; descriptive metadata lives in the
// Postgres metadata store under the same id.
package samplestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"signal-studio/sigerrors"
)

const keyPrefix = "signal:"

// payload is the wire form of one signal's bulk data.
type payload struct {
	Tag        string    `json:"tag"`
	Samples    []float64 `json:"samples"`
	Timestamps []float64 `json:"timestamps"`
}

// Store wraps the Redis client behind the sample-store capability.
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(host, port, password string) (*Store, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, sigerrors.WrapStoreError("sample", "connect", err)
	}

	log.Printf("✅ Connected to Redis at %s", addr)
	return &Store{client: client}, nil
}

// WriteSamples stores the sample/timestamp pair for a signal id. The
// tag carries the signal type alongside the payload so the blob is
// self-describing. Payloads never expire; signal data lives until the
// signal is deleted.
func (s *Store) WriteSamples(ctx context.Context, id, tag string, samples, timestamps []float64) error {
	data, err := json.Marshal(payload{Tag: tag, Samples: samples, Timestamps: timestamps})
	if err != nil {
		return fmt.Errorf("WriteSamples: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, data, 0).Err(); err != nil {
		return sigerrors.WrapStoreError("sample", "WriteSamples", err)
	}
	return nil
}

// ReadSamples retrieves the sample/timestamp pair for a signal id.
// Returns a NotFoundError when no payload exists for the id.
func (s *Store) ReadSamples(ctx context.Context, id string) (samples, timestamps []float64, err error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil, sigerrors.NewNotFound("samples", id)
	}
	if err != nil {
		return nil, nil, sigerrors.WrapStoreError("sample", "ReadSamples", err)
	}

	var p payload
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, nil, fmt.Errorf("ReadSamples: corrupt payload for %s: %w", id, err)
	}
	return p.Samples, p.Timestamps, nil
}

// DeleteSamples removes the payload for a signal id. Deleting a missing
// id is not an error.
func (s *Store) DeleteSamples(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return sigerrors.WrapStoreError("sample", "DeleteSamples", err)
	}
	return nil
}

// ListIDs scans for every stored signal id. Used by the orphan sweep;
// SCAN (not KEYS) so the walk doesn't stall Redis under load.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(keyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, sigerrors.WrapStoreError("sample", "ListIDs", err)
	}
	return ids, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
