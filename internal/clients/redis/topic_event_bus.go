package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type TopicEventBus interface {
	Publish(ctx context.Context, evt study.TopicStatusEvent) error
	StartForwarder(ctx context.Context, onMsg func(evt study.TopicStatusEvent)) error
	Close() error
}

type Config struct {
	Addr    string
	Channel string
}

type topicEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewTopicEventBus connects to Redis. An empty address yields a bus that drops events.
func NewTopicEventBus(log *logger.Logger, cfg Config) (TopicEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		log.Info("redis address not configured; topic events disabled")
		return NopBus{}, nil
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = "topic-status"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newTopicEventBus(log, rdb, ch), nil
}

func newTopicEventBus(log *logger.Logger, rdb *goredis.Client, channel string) *topicEventBus {
	return &topicEventBus{
		log:     log.With("service", "RedisTopicEventBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *topicEventBus) Publish(ctx context.Context, evt study.TopicStatusEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis topic bus not initialized")
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *topicEventBus) StartForwarder(ctx context.Context, onMsg func(evt study.TopicStatusEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis topic bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var evt study.TopicStatusEvent
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					b.log.Warn("bad topic event payload", "error", err)
					continue
				}
				onMsg(evt)
			}
		}
	}()
	return nil
}

func (b *topicEventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

// NopBus discards every event.
type NopBus struct{}

func (NopBus) Publish(context.Context, study.TopicStatusEvent) error { return nil }
func (NopBus) StartForwarder(context.Context, func(study.TopicStatusEvent)) error {
	return fmt.Errorf("topic events disabled: redis address not configured")
}
func (NopBus) Close() error { return nil }
