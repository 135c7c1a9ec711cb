// Package queue holds the list of files awaiting conversion. The queue is
// owned by the caller's foreground thread; a batch run reads an immutable
// snapshot, never the live list.
package queue

import "github.com/darcovia/music-forge/domain/model"

// Queue is an insertion-ordered set of items, deduplicated by path.
// Items survive a successful run; only Clear removes them, which keeps
// repeated StartBatch calls re-runnable over the same list.
type Queue struct {
	items []model.QueueItem
	index map[string]int
}

func New() *Queue {
	return &Queue{index: make(map[string]int)}
}

// Add appends a new item and returns true, or returns false when the path
// is already queued (the existing item's tags are left untouched).
func (q *Queue) Add(path string, tags model.Tags) bool {
	if path == "" {
		return false
	}
	if _, ok := q.index[path]; ok {
		return false
	}
	q.index[path] = len(q.items)
	q.items = append(q.items, model.QueueItem{Path: path, Tags: tags.Clone()})
	return true
}

// SetTags replaces the tags of a queued item in place. Returns false when
// the path is not queued.
func (q *Queue) SetTags(path string, tags model.Tags) bool {
	i, ok := q.index[path]
	if !ok {
		return false
	}
	q.items[i].Tags = tags.Clone()
	return true
}

// Len returns the number of queued items.
func (q *Queue) Len() int { return len(q.items) }

// Clear removes every item.
func (q *Queue) Clear() {
	q.items = nil
	q.index = make(map[string]int)
}

// Snapshot returns an independent copy of the items in insertion order.
// The batch runner works from this copy, so the caller may keep mutating
// the live queue while a run is in flight.
func (q *Queue) Snapshot() []model.QueueItem {
	out := make([]model.QueueItem, len(q.items))
	for i, it := range q.items {
		out[i] = model.QueueItem{Path: it.Path, Tags: it.Tags.Clone()}
	}
	return out
}

// Paths returns the queued paths in insertion order.
func (q *Queue) Paths() []string {
	out := make([]string, len(q.items))
	for i, it := range q.items {
		out[i] = it.Path
	}
	return out
}
