package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound     = errors.New("key not found")
	ErrStoreClosed  = errors.New("store closed")
	ErrInvalidValue = errors.New("invalid value")
)

// Store is the key-value persistence capability consumed by the
// search history and the user-content collections. All operations may
// fail with a storage error; callers degrade gracefully rather than
// surfacing failures to the user.
type Store interface {
	// Get returns the raw value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in unspecified order.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes every key.
	Clear(ctx context.Context) error
}

// GetJSON reads key and unmarshals it into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidValue, key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrInvalidValue, key, err)
	}
	return s.Set(ctx, key, data)
}

// expiring wraps a value with an absolute expiry time.
type expiring struct {
	Data   json.RawMessage `json:"data"`
	Expiry int64           `json:"expiry"` // unix milliseconds
}

// SetWithTTL stores v under key with a time-to-live. Expired entries
// behave as absent and are lazily removed on read.
func SetWithTTL(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrInvalidValue, key, err)
	}
	return SetJSON(ctx, s, key, expiring{
		Data:   data,
		Expiry: time.Now().Add(ttl).UnixMilli(),
	})
}

// GetWithTTL reads a value stored by SetWithTTL. An expired entry is
// removed and reported as ErrNotFound.
func GetWithTTL(ctx context.Context, s Store, key string, v any) error {
	var e expiring
	if err := GetJSON(ctx, s, key, &e); err != nil {
		return err
	}
	if e.Expiry > 0 && time.Now().UnixMilli() > e.Expiry {
		_ = s.Delete(ctx, key)
		return ErrNotFound
	}
	return json.Unmarshal(e.Data, v)
}

// CleanupExpired scans the store and removes entries whose TTL has
// passed. Non-TTL entries are left untouched. Returns the number of
// entries removed.
func CleanupExpired(ctx context.Context, s Store) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UnixMilli()
	removed := 0
	for _, key := range keys {
		data, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		var e expiring
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		if e.Expiry > 0 && len(e.Data) > 0 && now > e.Expiry {
			if err := s.Delete(ctx, key); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Backup is the portable export format of a whole store.
type Backup struct {
	Version   string                     `json:"version"`
	Timestamp time.Time                  `json:"timestamp"`
	Data      map[string]json.RawMessage `json:"data"`
}

// Export serializes the full store contents for backup.
func Export(ctx context.Context, s Store) ([]byte, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}

	backup := Backup{
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      make(map[string]json.RawMessage, len(keys)),
	}
	for _, key := range keys {
		data, err := s.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		if !json.Valid(data) {
			// Raw values that are not JSON are exported as strings.
			data, _ = json.Marshal(string(data))
		}
		backup.Data[key] = data
	}

	return json.MarshalIndent(backup, "", "  ")
}

// Import replaces the store contents with a previously exported
// backup. Returns the number of items imported.
func Import(ctx context.Context, s Store, data []byte) (int, error) {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return 0, fmt.Errorf("%w: decode backup: %v", ErrInvalidValue, err)
	}
	if backup.Data == nil {
		return 0, fmt.Errorf("%w: backup has no data section", ErrInvalidValue)
	}

	if err := s.Clear(ctx); err != nil {
		return 0, err
	}
	imported := 0
	for key, value := range backup.Data {
		if err := s.Set(ctx, key, value); err != nil {
			return imported, fmt.Errorf("import %s: %w", key, err)
		}
		imported++
	}
	return imported, nil
}

// Info describes store usage for diagnostics.
type Info struct {
	Type      string
	ItemCount int
	SizeBytes int
}

// Stat computes usage information by scanning the store.
func Stat(ctx context.Context, s Store, storeType string) (Info, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return Info{}, err
	}

	size := 0
	for _, key := range keys {
		data, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		size += len(key) + len(data)
	}

	return Info{Type: storeType, ItemCount: len(keys), SizeBytes: size}, nil
}
