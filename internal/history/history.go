// Package history keeps a bounded, linear undo/redo log of scene snapshots.
package history

import (
	"github.com/ideaspark/wireframe/internal/scene"
)

const DefaultCapacity = 30

// Log holds full-scene snapshots and a cursor at the current one. A Log is
// not safe for concurrent use; the editor controller serializes access.
type Log struct {
	entries  []scene.Scene
	cursor   int
	capacity int
}

// New returns an empty log. Capacities below 1 use DefaultCapacity.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, cursor: -1}
}

// Record discards any redo entries, appends a copy of s and evicts the
// oldest entry when the log is over capacity.
func (l *Log) Record(s scene.Scene) {
	l.entries = append(l.entries[:l.cursor+1], s.Clone())
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]scene.Scene(nil), l.entries[over:]...)
	}
	l.cursor = len(l.entries) - 1
}

// Reset replaces the whole log with a single entry.
func (l *Log) Reset(s scene.Scene) {
	l.entries = []scene.Scene{s.Clone()}
	l.cursor = 0
}

// Undo moves the cursor back and returns that snapshot. At the oldest entry
// it returns the current snapshot and false.
func (l *Log) Undo() (scene.Scene, bool) {
	if l.cursor <= 0 {
		return l.current(), false
	}
	l.cursor--
	return l.current(), true
}

// Redo moves the cursor forward and returns that snapshot. At the newest
// entry it returns the current snapshot and false.
func (l *Log) Redo() (scene.Scene, bool) {
	if l.cursor >= len(l.entries)-1 {
		return l.current(), false
	}
	l.cursor++
	return l.current(), true
}

// Current returns a copy of the snapshot under the cursor.
func (l *Log) Current() (scene.Scene, bool) {
	if l.cursor < 0 {
		return scene.Scene{}, false
	}
	return l.current(), true
}

func (l *Log) current() scene.Scene {
	if l.cursor < 0 {
		return scene.Scene{}
	}
	return l.entries[l.cursor].Clone()
}

func (l *Log) CanUndo() bool { return l.cursor > 0 }
func (l *Log) CanRedo() bool { return l.cursor >= 0 && l.cursor < len(l.entries)-1 }
func (l *Log) Len() int      { return len(l.entries) }
func (l *Log) Cursor() int   { return l.cursor }
func (l *Log) Capacity() int { return l.capacity }
