package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"imageuploader-api/internal/logging"
	"imageuploader-api/internal/model"
)

var errInvalidEvent = errors.New("invalid upload event")

type UploadEventStore interface {
	Create(ctx context.Context, event *model.UploadEvent) error
}

// UploadEventWorker drains the upload event queue into the audit table.
type UploadEventWorker struct {
	conn      *amqp.Connection
	store     UploadEventStore
	queueName string
	log       logging.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUploadEventWorker(conn *amqp.Connection, store UploadEventStore, queueName string, log logging.Logger) *UploadEventWorker {
	return &UploadEventWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log.With("component", "upload_event_worker", "queue", queueName),
	}
}

func (w *UploadEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	if err := ch.Qos(16, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn(workerCtx, "delivery channel closed")
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					w.log.Error(workerCtx, "handle upload event failed", "error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	w.log.Info(ctx, "upload event worker started")
	return nil
}

func (w *UploadEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.UploadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode upload event failed: %w", err)
	}
	if event.ImageID == 0 || event.UserID == 0 {
		return errInvalidEvent
	}
	// the row id belongs to the audit table, not the publisher
	event.ID = 0
	return w.store.Create(ctx, &event)
}

func (w *UploadEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
