package queue

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/constants"
	"github.com/ambava-store/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	emailTaskTimeout   = 2 * time.Minute
	emailTaskRetention = 24 * time.Hour
	defaultConcurrency = 10
)

// Client 订单邮件任务投递；队列关闭时所有投递都是空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，cfg 为空或未启用时返回禁用的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 是否会真正投递任务
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭底层连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmationEmail 投递下单确认邮件
func (c *Client) EnqueueOrderConfirmationEmail(payload OrderConfirmationEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderConfirmationEmailTask(payload)
	if err != nil {
		return err
	}
	return c.submit(task, opts)
}

// EnqueueOrderStatusEmail 投递订单状态邮件
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.submit(task, opts)
}

// submit 邮件任务只投递一次，失败不重试，调用方自行决定是否同步兜底
func (c *Client) submit(task *asynq.Task, extra []asynq.Option) error {
	opts := []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(emailTaskTimeout),
		asynq.Retention(emailTaskRetention),
	}
	info, err := c.client.Enqueue(task, append(opts, extra...)...)
	if err != nil {
		return err
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "task_id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成 worker 使用的 redis 连接与消费配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Warnw("queue_task_failed", "type", task.Type(), "error", err)
		}),
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
