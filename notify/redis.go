package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elmanelman/judge-submit/config"
	"github.com/elmanelman/judge-submit/controller"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// OutcomeEvent is the message published for every attempt.
type OutcomeEvent struct {
	AttemptID string    `json:"attempt_id"`
	Outcome   string    `json:"outcome"`
	Status    string    `json:"status,omitempty"`
	Style     string    `json:"style"`
	Headline  string    `json:"headline"`
	Detail    string    `json:"detail,omitempty"`
	JudgedAt  time.Time `json:"judged_at"`
	ElapsedMs int64     `json:"elapsed_ms"`
}

func NewOutcomeEvent(o controller.Outcome) OutcomeEvent {
	ev := OutcomeEvent{
		AttemptID: o.AttemptID.String(),
		Outcome:   o.State.String(),
		Style:     o.Block.Style.String(),
		Headline:  o.Block.Headline,
		Detail:    o.Block.Body,
		JudgedAt:  o.StartedAt.Add(o.Elapsed).UTC(),
		ElapsedMs: o.Elapsed.Milliseconds(),
	}
	if o.Result != nil {
		ev.Status = o.Result.Status
	}
	return ev
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisNotifier struct {
	logger  *zap.Logger
	client  publisher
	channel string
}

func NewRedisNotifier(client publisher, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{logger: logger, client: client, channel: channel}
}

// Dial connects to the configured Redis and checks it answers.
func Dial(ctx context.Context, cfg config.NotifyConfig, logger *zap.Logger) (*RedisNotifier, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	return NewRedisNotifier(client, cfg.Channel, logger), client, nil
}

func (n *RedisNotifier) Publish(ctx context.Context, ev OutcomeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return n.client.Publish(ctx, n.channel, data).Err()
}

func (n *RedisNotifier) Observe(ctx context.Context, o controller.Outcome) {
	ev := NewOutcomeEvent(o)
	if err := n.Publish(ctx, ev); err != nil {
		n.logger.Warn(
			"failed to publish outcome",
			zap.String("attempt_id", ev.AttemptID),
			zap.String("channel", n.channel),
			zap.Error(err),
		)
	}
}
