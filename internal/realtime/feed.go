// Package realtime tells connected clients that props or wagers changed.
// Events carry no row data; every event is a cue to refetch.
package realtime

import (
	"sync"
	"time"

	"monkeybets/internal/metrics"
)

const (
	TableProps  = "props"
	TableWagers = "wagers"

	EventChanged = "changed"
)

// Tables lists every table clients may subscribe to.
var Tables = []string{TableProps, TableWagers}

// Event is a single change notification.
type Event struct {
	Type  string    `json:"type"`
	Table string    `json:"table"`
	At    time.Time `json:"at"`
}

// Publisher is what writers call after a successful change.
type Publisher interface {
	Publish(table string)
}

// NopPublisher discards changes. Services use it when the database itself
// announces changes through NOTIFY.
type NopPublisher struct{}

func (NopPublisher) Publish(string) {}

type subscription struct {
	fn     func(Event)
	tables map[string]bool
}

// Feed fans change events out to subscribers. Callbacks run on the
// publishing goroutine and must not block.
type Feed struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]subscription
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewFeed(m *metrics.Metrics) *Feed {
	return &Feed{
		subs:    make(map[int]subscription),
		metrics: m,
		now:     time.Now,
	}
}

// Subscribe registers fn for the given tables, or for every table when none
// are named. The returned func removes the subscription.
func (f *Feed) Subscribe(fn func(Event), tables ...string) func() {
	if len(tables) == 0 {
		tables = Tables
	}
	filter := make(map[string]bool, len(tables))
	for _, table := range tables {
		filter[table] = true
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = subscription{fn: fn, tables: filter}
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish notifies every subscriber of table.
func (f *Feed) Publish(table string) {
	event := Event{Type: EventChanged, Table: table, At: f.now().UTC()}

	f.mu.RLock()
	targets := make([]func(Event), 0, len(f.subs))
	for _, sub := range f.subs {
		if sub.tables[table] {
			targets = append(targets, sub.fn)
		}
	}
	f.mu.RUnlock()

	f.metrics.RecordRealtimeEvent(table)
	for _, fn := range targets {
		fn(event)
	}
}

// PublishAll notifies every table, used after a gap in the change stream.
func (f *Feed) PublishAll() {
	for _, table := range Tables {
		f.Publish(table)
	}
}

// Subscribers reports how many subscriptions are active.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
