package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names.
const (
	PipelineRunsStream    = "propdash.pipeline.runs"
	AnalysisUpdatesStream = "propdash.analysis.updates"
)

// streamMaxLen caps each stream; trimming is approximate.
const streamMaxLen = 10000

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishPipelineRun publishes a pipeline run event (start, step, completion)
func (p *RedisStreamPublisher) PublishPipelineRun(ctx context.Context, event string, run any) error {
	return p.publish(ctx, PipelineRunsStream, event, run)
}

// PublishAnalysisUpdate publishes a changed analysis observed by the poller
func (p *RedisStreamPublisher) PublishAnalysisUpdate(ctx context.Context, update any) error {
	return p.publish(ctx, AnalysisUpdatesStream, "analysis.updated", update)
}

func (p *RedisStreamPublisher) publish(ctx context.Context, stream, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: Values(event, data, time.Now()),
	}).Err()
}

// Values builds the stream entry fields
func Values(event string, data []byte, at time.Time) map[string]any {
	return map[string]any{
		"event":     event,
		"data":      string(data),
		"timestamp": at.Unix(),
	}
}
