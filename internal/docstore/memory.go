package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/roastline/roastline/internal/coerce"
)

// Memory is an in-memory Store used by tests and local runs. Field values are
// interpreted with the same lenient coercion the engine applies, so documents
// may carry epoch numbers or string timestamps just like production data.
type Memory struct {
	mu         sync.RWMutex
	partitions map[string]map[string]map[string]any
	clock      func() time.Time
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		partitions: make(map[string]map[string]map[string]any),
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the write-timestamp source.
func (m *Memory) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
}

// Put stores a document verbatim, replacing any existing one.
func (m *Memory) Put(partition, id string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	part, ok := m.partitions[partition]
	if !ok {
		part = make(map[string]map[string]any)
		m.partitions[partition] = part
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	part[id] = copied
}

// Get returns a copy of the stored document, if present.
func (m *Memory) Get(partition, id string) (Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.partitions[partition][id]
	if !ok {
		return Document{}, false
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Document{ID: id, Fields: copied}, true
}

// RangeQuery implements Store.
func (m *Memory) RangeQuery(ctx context.Context, partition, field string, start, end time.Time) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for id, fields := range m.partitions[partition] {
		ts, ok := coerce.Timestamp(fields[field])
		if !ok {
			continue
		}
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out = append(out, Document{ID: id, Fields: copied})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MergeSet implements Store.
func (m *Memory) MergeSet(ctx context.Context, key Key, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.partitions[key.Partition]
	if !ok {
		part = make(map[string]map[string]any)
		m.partitions[key.Partition] = part
	}
	doc, ok := part[key.ID()]
	if !ok {
		doc = make(map[string]any, len(fields))
		part[key.ID()] = doc
	}
	for k, v := range fields {
		if _, isMarker := v.(serverTimestamp); isMarker {
			doc[k] = m.clock()
			continue
		}
		doc[k] = v
	}
	return nil
}
