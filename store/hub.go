package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"moatrack/record"
)

// notifyChannel is the pg_notify channel the moa_records trigger raises on
// every insert, update, or delete.
const notifyChannel = "moa_records_changed"

// Hub is the live-subscription fan-out: it owns at most one LISTEN
// connection, holds it only while at least one subscriber exists, and pushes
// the complete ordered record set to every subscriber after each change.
// Delivery is full snapshots, never diffs; a slow subscriber sees the latest
// snapshot, intermediate ones may be dropped.
type Hub struct {
	pool  *pgxpool.Pool
	fetch func(context.Context) ([]record.Record, error)

	// listen blocks on change notifications, closing ready once the
	// subscription to them is established. Swapped out by tests.
	listen func(ctx context.Context, ready, signals chan<- struct{}) error

	mu     sync.Mutex
	subs   map[int]chan []record.Record
	nextID int
	ready  chan struct{}
	stop   context.CancelFunc
	done   chan struct{}
}

func NewHub(pool *pgxpool.Pool, fetch func(context.Context) ([]record.Record, error)) *Hub {
	h := &Hub{
		pool:  pool,
		fetch: fetch,
		subs:  make(map[int]chan []record.Record),
	}
	h.listen = h.pgListen
	return h
}

// Subscribe registers a new snapshot consumer. The consumer is registered
// and the listener established before the initial snapshot is read, so a
// write landing between the read and the registration cannot go unnoticed;
// it either shows in the snapshot or triggers a rebroadcast the consumer
// receives. The returned release func is idempotent; releasing the last
// subscriber drops the LISTEN connection.
func (h *Hub) Subscribe(ctx context.Context) (<-chan []record.Record, func(), error) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan []record.Record, 1)
	h.subs[id] = ch
	if len(h.subs) == 1 {
		h.start()
	}
	ready, done := h.ready, h.done
	h.mu.Unlock()

	release := func() { h.release(id) }

	select {
	case <-ready:
	case <-done:
		release()
		return nil, nil, &record.StoreError{Op: "subscribe", Err: errors.New("listener failed to start")}
	case <-ctx.Done():
		release()
		return nil, nil, ctx.Err()
	}

	snapshot, err := h.fetch(ctx)
	if err != nil {
		release()
		return nil, nil, err
	}

	h.mu.Lock()
	if _, active := h.subs[id]; active {
		select {
		case ch <- snapshot:
		default:
			// A broadcast beat us to the queue slot; that snapshot is
			// at least as fresh as ours.
		}
	}
	h.mu.Unlock()

	return ch, release, nil
}

// start spins up the listener pair under h.mu: one goroutine blocks on
// LISTEN notifications, the other turns each notification into a fresh
// snapshot broadcast. The pair lives until the last subscriber releases.
func (h *Hub) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.stop = cancel
	done := make(chan struct{})
	h.done = done
	ready := make(chan struct{})
	h.ready = ready

	signals := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.listen(ctx, ready, signals) })
	g.Go(func() error { return h.rebroadcast(ctx, signals) })
	go func() {
		// If the listener dies the stream simply goes quiet; the gateway
		// does not retry. A consumer that needs the feed back re-subscribes.
		_ = g.Wait()
		close(done)
	}()
}

func (h *Hub) release(id int) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, id)
	close(ch)

	var stop context.CancelFunc
	var done chan struct{}
	if len(h.subs) == 0 {
		stop, done = h.stop, h.done
		h.stop, h.done = nil, nil
	}
	h.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

// pgListen holds the LISTEN connection. ready is closed once the LISTEN
// command has executed, which is the point from which no committed write can
// be notified unheard.
func (h *Hub) pgListen(ctx context.Context, ready, signals chan<- struct{}) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return &record.StoreError{Op: "subscribe", Err: err}
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return &record.StoreError{Op: "subscribe", Err: fmt.Errorf("listen: %w", err)}
	}
	close(ready)

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return &record.StoreError{Op: "subscribe", Err: err}
		}
		select {
		case signals <- struct{}{}:
		default:
			// A refresh is already pending; it will pick up this change too.
		}
	}
}

func (h *Hub) rebroadcast(ctx context.Context, signals <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-signals:
		}

		snapshot, err := h.fetch(ctx)
		if err != nil {
			// Skip this cycle; the next notification triggers a new fetch.
			continue
		}
		h.broadcast(snapshot)
	}
}

func (h *Hub) broadcast(snapshot []record.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
			// Replace the stale queued snapshot with the latest one.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
