// Package events publishes submission status changes to Redis so any
// subscribed display (web page, operator console) can render them.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"aivs/query-service/internal/submission"
)

// ChannelQueryStatus is the pub/sub channel status events go to.
const ChannelQueryStatus = "EVENT_QUERY_STATUS"

// StatusEvent is the published message body.
type StatusEvent struct {
	Type      string           `json:"type"`
	AttemptID string           `json:"attemptId"`
	State     submission.State `json:"state"`
	Message   string           `json:"message"`
	At        string           `json:"at"`
}

// RedisStatusSink implements submission.StatusSink on Redis pub/sub.
// Publish failures are logged and otherwise ignored.
type RedisStatusSink struct {
	rdb     *redis.Client
	channel string
}

// NewRedisStatusSink publishes to ChannelQueryStatus.
func NewRedisStatusSink(rdb *redis.Client) *RedisStatusSink {
	return &RedisStatusSink{rdb: rdb, channel: ChannelQueryStatus}
}

func (s *RedisStatusSink) SetStatus(ctx context.Context, u submission.StatusUpdate) {
	event, err := json.Marshal(StatusEvent{
		Type:      ChannelQueryStatus,
		AttemptID: u.AttemptID,
		State:     u.State,
		Message:   u.Message,
		At:        u.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.Warn("encode EVENT_QUERY_STATUS failed", "attemptId", u.AttemptID, "err", err)
		return
	}
	if err := s.rdb.Publish(ctx, s.channel, event).Err(); err != nil {
		slog.Warn("publish EVENT_QUERY_STATUS failed", "attemptId", u.AttemptID, "err", err)
	}
}
