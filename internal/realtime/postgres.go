package realtime

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	channelSuffix = "_changed"
	pingInterval  = 90 * time.Second
)

// ListenPostgres forwards NOTIFY events from the table triggers into feed
// until ctx is cancelled. After a reconnect every table is published since
// notifications may have been missed.
func ListenPostgres(ctx context.Context, dsn string, feed *Feed) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventDisconnected:
			log.Printf("[Realtime] Listener disconnected: %v", err)
		case pq.ListenerEventReconnected:
			log.Println("[Realtime] Listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Printf("[Realtime] Listener connection attempt failed: %v", err)
		}
	}

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, reportProblem)
	defer listener.Close()

	for _, table := range Tables {
		if err := listener.Listen(table + channelSuffix); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", table+channelSuffix, err)
		}
	}

	log.Printf("[Realtime] Listening for changes on %v", Tables)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Realtime] Listener stopped")
			return nil

		case n := <-listener.Notify:
			if n == nil {
				// Connection was re-established.
				feed.PublishAll()
				continue
			}
			table := strings.TrimSuffix(n.Channel, channelSuffix)
			feed.Publish(table)

		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					log.Printf("[Realtime] Listener ping failed: %v", err)
				}
			}()
		}
	}
}
