package queue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	QueueCritical      = "critical"
	QueueNotifications = "notifications"
	QueueDefault       = "default"
)

type Processor interface {
	Process() (*asynq.Task, error)
	ProcessorName() string
}

type Queue interface {
	Enqueue(processor Processor, opts ...asynq.Option) error
}

type Client struct {
	client *asynq.Client
	once   sync.Once
}

// RedisOpt converts a redis:// URL into asynq connection options.
func RedisOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, errors.New("REDIS_URL environment variable not set")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("error parsing redis url: %w", err)
	}

	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}

func NewClient(redisURL string) (*Client, error) {
	var c Client

	opt, err := RedisOpt(redisURL)
	if err != nil {
		return nil, err
	}

	c.once.Do(func() {
		logger.Info("setting up connection for asynq redis queue")
		c.client = asynq.NewClient(opt)
	})

	return &c, nil
}

func (c *Client) Enqueue(processor Processor, opts ...asynq.Option) error {
	task, err := processor.Process()
	if err != nil {
		return fmt.Errorf("could not build %s task: %w", processor.ProcessorName(), err)
	}

	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("could not enqueue %s task: %w", processor.ProcessorName(), err)
	}

	logger.WithFields(map[string]any{"task": info.Type, "id": info.ID, "queue": info.Queue}).Debugf("enqueued %s", processor.ProcessorName())
	return nil
}

func (c *Client) Close() error {
	logger.Info("closing connection to asynq queue")
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("error closing connection: %w", err)
	}
	return nil
}

// RetryDelay doubles per attempt: 1s, 2s, 4s, ...
func RetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(math.Pow(2, float64(n))) * time.Second
}

type Server struct {
	server *asynq.Server
}

func NewServer(redisURL string, concurrency int) (*Server, error) {
	opt, err := RedisOpt(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueCritical:      6,
			QueueNotifications: 3,
			QueueDefault:       1,
		},
		RetryDelayFunc: RetryDelay,
		ErrorHandler:   asynq.ErrorHandlerFunc(reportTaskError),
		Logger:         logger.Logger,
	})

	return &Server{server: server}, nil
}

func reportTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	entry := logger.WithFields(map[string]any{"task": task.Type(), "attempt": retried + 1}).WithError(err)
	if retried >= maxRetry {
		entry.Error("task failed after final attempt")
		return
	}
	entry.Warn("task failed, will retry")
}

// Run blocks until ctx is cancelled, then drains in-flight tasks.
func (s *Server) Run(ctx context.Context, mux *asynq.ServeMux) error {
	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("error running queue server: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutting down queue server")
	s.server.Shutdown()
	return nil
}
