package jobs

import (
	"context"
	"log"
	"time"

	"monkeybets/internal/realtime"
	"monkeybets/internal/repository"
)

// ExpiryNotifier announces props that closed since the last tick. Expiry is
// never written to the database, so neither the triggers nor the services see
// it happen; subscribers would otherwise keep showing an open prop.
type ExpiryNotifier struct {
	repo      *repository.Repository
	publisher realtime.Publisher
	interval  time.Duration
	stopChan  chan struct{}
	now       func() time.Time
	last      time.Time
}

// NewExpiryNotifier creates a new expiry notifier job
func NewExpiryNotifier(repo *repository.Repository, publisher realtime.Publisher, interval time.Duration) *ExpiryNotifier {
	return &ExpiryNotifier{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

// Start runs the notifier loop until Stop is called
func (en *ExpiryNotifier) Start() {
	log.Printf("[ExpiryNotifier] Starting expiry notifier (interval: %v)", en.interval)

	en.last = en.now().UTC()
	ticker := time.NewTicker(en.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			en.tick(context.Background())
		case <-en.stopChan:
			log.Println("[ExpiryNotifier] Stopping expiry notifier")
			return
		}
	}
}

// Stop stops the notifier loop
func (en *ExpiryNotifier) Stop() {
	close(en.stopChan)
}

// tick publishes a props change when at least one prop expired in
// (last, now]. The window only advances on success.
func (en *ExpiryNotifier) tick(ctx context.Context) int64 {
	now := en.now().UTC()

	count, err := en.repo.CountPropsExpiredBetween(ctx, en.last, now)
	if err != nil {
		log.Printf("[ExpiryNotifier] Error counting expired props: %v", err)
		return 0
	}
	en.last = now

	if count > 0 {
		log.Printf("[ExpiryNotifier] %d props expired", count)
		en.publisher.Publish(realtime.TableProps)
	}
	return count
}
