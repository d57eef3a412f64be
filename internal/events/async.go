package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/rs/zerolog/log"
)

// ErrBufferFull is returned by AsyncPublisher.Publish when the event was dropped.
var ErrBufferFull = errors.New("order event buffer is full")

// ErrPublisherStopped is returned by AsyncPublisher.Publish after Close.
var ErrPublisherStopped = errors.New("order publisher stopped")

// AsyncConfig holds configuration for AsyncPublisher.
type AsyncConfig struct {
	BufferSize     int
	Workers        int
	PublishTimeout time.Duration
}

// DefaultAsyncConfig returns sensible defaults.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		BufferSize:     256,
		Workers:        2,
		PublishTimeout: 5 * time.Second,
	}
}

// AsyncPublisher hands events to a pool of workers that forward them to
// the underlying publisher. Publish never blocks.
type AsyncPublisher struct {
	next    OrderPublisher
	eventCh chan OrderPlaced
	stopCh  chan struct{}
	wg      sync.WaitGroup
	timeout time.Duration

	// mu orders Publish against Close: an event accepted by Publish is
	// always in the buffer before the workers are told to drain.
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once

	enqueued  int64
	dropped   int64
	published int64
	failed    int64
}

// NewAsyncPublisher starts cfg.Workers workers in front of next.
func NewAsyncPublisher(next OrderPublisher, cfg AsyncConfig) *AsyncPublisher {
	def := DefaultAsyncConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = def.PublishTimeout
	}

	p := &AsyncPublisher{
		next:    next,
		eventCh: make(chan OrderPlaced, cfg.BufferSize),
		stopCh:  make(chan struct{}),
		timeout: cfg.PublishTimeout,
	}

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *AsyncPublisher) worker() {
	defer p.wg.Done()

	for {
		select {
		case event := <-p.eventCh:
			p.deliver(event)
		case <-p.stopCh:
			// Drain what is already buffered.
			for {
				select {
				case event := <-p.eventCh:
					p.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (p *AsyncPublisher) deliver(event OrderPlaced) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.next.Publish(ctx, event); err != nil {
		atomic.AddInt64(&p.failed, 1)
		metrics.RecordOrderEvent(metrics.ResultFailed)
		log.Warn().
			Err(err).
			Str("session_id", event.SessionID).
			Str("order_id", event.Order.ID).
			Msg("Failed to publish order event")
		return
	}
	atomic.AddInt64(&p.published, 1)
	metrics.RecordOrderEvent(metrics.ResultPublished)
}

// Publish enqueues event. It returns ErrBufferFull without blocking when
// the buffer is full.
func (p *AsyncPublisher) Publish(_ context.Context, event OrderPlaced) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPublisherStopped
	}
	select {
	case p.eventCh <- event:
		atomic.AddInt64(&p.enqueued, 1)
		return nil
	default:
		atomic.AddInt64(&p.dropped, 1)
		metrics.RecordOrderEvent(metrics.ResultDropped)
		log.Warn().
			Str("session_id", event.SessionID).
			Str("order_id", event.Order.ID).
			Msg("Order event buffer full, dropping event")
		return ErrBufferFull
	}
}

// Close drains buffered events, stops the workers and closes the
// underlying publisher. It is safe to call more than once.
func (p *AsyncPublisher) Close() error {
	var err error
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()

		close(p.stopCh)
		p.wg.Wait()
		err = p.next.Close()
	})
	return err
}

// Stats returns enqueued, dropped, published and failed counts.
func (p *AsyncPublisher) Stats() (enqueued, dropped, published, failed int64) {
	return atomic.LoadInt64(&p.enqueued),
		atomic.LoadInt64(&p.dropped),
		atomic.LoadInt64(&p.published),
		atomic.LoadInt64(&p.failed)
}
