// Package status keeps the append-only log of client status checks in Redis.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key is the Redis list holding status checks in insertion order.
const Key = "status_checks"

// Check records that a client called in.
type Check struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store appends and lists status checks.
type Store struct {
	client *redis.Client
	now    func() time.Time
	newID  func() string
}

// NewStore constructs a Store on client.
func NewStore(client *redis.Client) *Store {
	return NewStoreWithClock(client, time.Now, uuid.NewString)
}

// NewStoreWithClock constructs a Store with a custom clock and ID source (for tests).
func NewStoreWithClock(client *redis.Client, now func() time.Time, newID func() string) *Store {
	return &Store{client: client, now: now, newID: newID}
}

// Create appends a new check for clientName and returns it.
func (s *Store) Create(ctx context.Context, clientName string) (*Check, error) {
	c := &Check{
		ID:         s.newID(),
		ClientName: clientName,
		Timestamp:  s.now().UTC(),
	}

	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling status check: %w", err)
	}

	if err := s.client.RPush(ctx, Key, b).Err(); err != nil {
		return nil, fmt.Errorf("appending status check for %s: %w", clientName, err)
	}

	return c, nil
}

// List returns the first limit checks in insertion order.
func (s *Store) List(ctx context.Context, limit int) ([]*Check, error) {
	if limit <= 0 {
		return []*Check{}, nil
	}

	vals, err := s.client.LRange(ctx, Key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing status checks: %w", err)
	}

	checks := make([]*Check, 0, len(vals))
	for i, v := range vals {
		var c Check
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("unmarshaling status check %d: %w", i, err)
		}
		checks = append(checks, &c)
	}

	return checks, nil
}
