package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pulsecrm/backend/internal/config"
)

// Client enqueues background tasks for cmd/worker.
type Client struct {
	client     *asynq.Client
	maxRetries int
}

func NewClient(redisCfg config.RedisConfig, webhookCfg config.WebhookConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisCfg.Addr(),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		}),
		maxRetries: webhookCfg.MaxRetries,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueWebhookDeliver schedules a retry of a failed delivery. Backoff
// between attempts is asynq's default exponential schedule.
func (c *Client) EnqueueWebhookDeliver(payload WebhookDeliverPayload) error {
	return c.enqueue(TypeWebhookDeliver, payload,
		asynq.MaxRetry(c.maxRetries),
		asynq.Timeout(30*time.Second),
	)
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if _, err := c.client.Enqueue(asynq.NewTask(taskType, data), opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
