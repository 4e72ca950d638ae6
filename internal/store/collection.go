package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Collection is a typed CRUD facade over one KV key. Every mutation is a full
// read-modify-write of the whole collection, serialized under a per-collection
// mutex so interleaved writers cannot lose updates.
type Collection[T Entity] struct {
	kv  KV
	key string
	mu  sync.Mutex
}

func NewCollection[T Entity](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// GetAll returns the full collection snapshot in stored order. A key that was
// never written reads as an empty collection.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Add validates the record and appends it. The caller supplies the ID; no
// duplicate check is performed, lookups resolve to the first match.
func (c *Collection[T]) Add(ctx context.Context, record T) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid %s record: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	return c.save(ctx, append(records, record))
}

// Update merges patch over the first record whose ID matches: fields present
// in the patch overwrite, fields absent are preserved. The merged record is
// re-validated before persisting. Returns false when no record matched.
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	for i, record := range records {
		if record.EntityID() != id {
			continue
		}

		merged, err := mergeRecord(record, patch)
		if err != nil {
			return false, fmt.Errorf("%s[%s]: %w", c.key, id, err)
		}
		if err := merged.Validate(); err != nil {
			return false, fmt.Errorf("invalid %s record after update: %w", c.key, err)
		}

		records[i] = merged
		if err := c.save(ctx, records); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// Delete removes every record whose ID matches. Returns false when nothing
// matched; a repeat delete is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, record := range records {
		if record.EntityID() != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}

	if err := c.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceAll overwrites the stored collection with records, order preserved.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, ok, err := c.kv.Read(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", c.key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var records []T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCollection, c.key, err)
	}
	return records, nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.key, err)
	}
	if err := c.kv.Write(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.key, err)
	}
	return nil
}

// mergeRecord overlays patch onto record through its JSON form and decodes
// the result strictly, so a patch naming unknown fields is rejected instead
// of silently persisted.
func mergeRecord[T Entity](record T, patch map[string]any) (T, error) {
	var zero T

	base, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("failed to encode record: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return zero, fmt.Errorf("failed to decode record fields: %w", err)
	}
	for k, v := range patch {
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("failed to encode merged record: %w", err)
	}

	var merged T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&merged); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return merged, nil
}
