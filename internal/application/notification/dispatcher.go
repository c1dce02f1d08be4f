package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/notification"
	"github.com/worklane/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const defaultQueueSize = 256

// persistTimeout bounds each write so a slow database cannot back the
// queue up indefinitely.
const persistTimeout = 5 * time.Second

// Message is a dispatch request for one recipient
type Message struct {
	UserID  uuid.UUID
	Type    notification.Type
	Title   string
	Content string
	Link    string
}

// Dispatcher persists notifications asynchronously on a bounded queue.
// Delivery is best-effort: a full queue drops the message and a failed write
// is logged and counted, never surfaced to the operation that produced it.
type Dispatcher struct {
	repo   notification.Repository
	logger *zap.Logger
	queue  chan Message
	wg     sync.WaitGroup

	// mu orders enqueues against Close so the channel is never closed
	// while a send is in flight
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher and starts its worker
func NewDispatcher(repo notification.Repository, logger *zap.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	d := &Dispatcher{
		repo:   repo,
		logger: logger,
		queue:  make(chan Message, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Dispatch enqueues one message. It never blocks; when the queue is full the
// message is dropped, logged, and counted.
func (d *Dispatcher) Dispatch(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- msg:
	default:
		metrics.NotificationsDropped.Inc()
		d.logger.Warn("notification queue full, dropping message",
			zap.String("user_id", msg.UserID.String()),
			zap.String("type", msg.Type.String()),
		)
	}
}

// DispatchAll enqueues the same message for several recipients
func (d *Dispatcher) DispatchAll(userIDs []uuid.UUID, msg Message) {
	for _, id := range userIDs {
		msg.UserID = id
		d.Dispatch(msg)
	}
}

// Close stops accepting messages, drains the queue, and waits for the worker
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.persist(msg)
	}
}

func (d *Dispatcher) persist(msg Message) {
	n, err := notification.NewNotification(msg.UserID, msg.Type, msg.Title, msg.Content, msg.Link)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err = d.repo.Create(ctx, n)
		cancel()
	}

	if err != nil {
		metrics.NotificationsFailed.WithLabelValues(msg.Type.String()).Inc()
		d.logger.Error("failed to persist notification",
			zap.String("user_id", msg.UserID.String()),
			zap.String("type", msg.Type.String()),
			zap.Error(err),
		)
		return
	}

	metrics.NotificationsDispatched.WithLabelValues(msg.Type.String()).Inc()
}
