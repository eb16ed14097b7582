package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	kafka_config "reservo/pkg/kafka/config"
)

type ConsumerMiddleware func(ctx context.Context, msg Message, next MessageHandler) error

type Consumer struct {
	reader     *kafka.Reader
	topic      string
	groupID    string
	maxRetries int
	handler    MessageHandler
	middleware []ConsumerMiddleware
	mu         sync.RWMutex
	closed     bool
}

func NewConsumer(cfg *kafka_config.Config, topic, groupID string, handler MessageHandler) (*Consumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		MaxWait:        cfg.ConsumerMaxWait,
		CommitInterval: cfg.ConsumerCommitInterval,
		StartOffset:    cfg.ConsumerStartOffset,
	})

	return &Consumer{
		reader:     reader,
		topic:      topic,
		groupID:    groupID,
		maxRetries: cfg.ConsumerMaxRetries,
		handler:    handler,
	}, nil
}

func (c *Consumer) Use(middleware ConsumerMiddleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware = append(c.middleware, middleware)
}

// Run consumes until the context is cancelled or Close is called.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		kmsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.mu.RLock()
			closed := c.closed
			c.mu.RUnlock()
			if closed {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		msg := fromKafkaMessage(kmsg)
		if err := c.process(ctx, msg); err != nil {
			// The message stays uncommitted and will be redelivered; the
			// retry budget above only bounds in-process attempts.
			continue
		}

		if err := c.reader.CommitMessages(ctx, kmsg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg Message) error {
	c.mu.RLock()
	middleware := c.middleware
	c.mu.RUnlock()

	handle := c.handler
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := handle
		handle = func(ctx context.Context, msg Message) error {
			return mw(ctx, msg, next)
		}
	}

	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err = handle(ctx, msg); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.reader.Close()
}

func fromKafkaMessage(kmsg kafka.Message) Message {
	headers := make(map[string]string, len(kmsg.Headers))
	for _, h := range kmsg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(kmsg.Key),
		Value:     kmsg.Value,
		Headers:   headers,
		Topic:     kmsg.Topic,
		Partition: kmsg.Partition,
		Offset:    kmsg.Offset,
		Timestamp: kmsg.Time,
	}
}
