package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/usecase/relay"
	"weather-relay/pkg/log"
	"weather-relay/pkg/msg"
	"weather-relay/pkg/redis"
)

const lockKey = "weather_polling_scheduler"

// Target is one display instance polled on every tick
type Target struct {
	InstanceID string `mapstructure:"instanceId"`
	Latitude   string `mapstructure:"latitude"`
	Longitude  string `mapstructure:"longitude"`
	Units      string `mapstructure:"units"`
	Language   string `mapstructure:"language"`
}

// PollSchedulerConfig holds configuration for the poll scheduler
type PollSchedulerConfig struct {
	CronExpression  string
	LockTTL         time.Duration
	RefreshInterval time.Duration
	APIKey          string
	Targets         []Target
}

// PollScheduler fetches the forecast of every configured target on a cron schedule.
// Only the instance holding the redis lock runs the cron.
type PollScheduler struct {
	cron        *cron.Cron
	useCase     relay.UseCase
	redisClient *redis.Client
	config      *PollSchedulerConfig
}

// NewPollScheduler creates a new poll scheduler with distributed locking support
func NewPollScheduler(useCase relay.UseCase, redisClient *redis.Client, config *PollSchedulerConfig) *PollScheduler {
	return &PollScheduler{
		cron:        cron.New(),
		useCase:     useCase,
		redisClient: redisClient,
		config:      config,
	}
}

// InitPollScheduleTasks acquires the lock and starts the cron in the background
func (s *PollScheduler) InitPollScheduleTasks(ctx context.Context) {
	go func() {
		lock := redis.NewLock(s.redisClient, lockKey, redis.NewLockOptions().
			WithTTL(s.getLockTTL()).
			WithRefreshInterval(s.getRefreshInterval()).
			WithLockNamespace("weather_schedules"))

		if err := lock.Lock(ctx); err != nil {
			log.Errorf("Failed to acquire distributed lock, poll scheduler will not be initialized: %v", err)
			return
		}
		defer func() {
			if err := lock.Unlock(context.Background()); err != nil {
				log.Warnf("Failed to release poll scheduler lock: %v", err)
			}
		}()

		refreshErrChan := lock.AutoRefresh(ctx)

		if _, err := s.cron.AddFunc(s.config.CronExpression, s.ExecuteScheduledTask); err != nil {
			log.Errorf("Failed to initialize poll scheduler, cron will not be started: %v", err)
			return
		}

		s.cron.Start()
		log.Info(msg.GetMessage("schedule.started", s.config.CronExpression))

		err := <-refreshErrChan

		cronCtx := s.cron.Stop()
		<-cronCtx.Done()

		if err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("Poll scheduler stopped due to auto-refresh failure: %v", err)
			return
		}
		log.Info(msg.GetMessage("schedule.stopped"))
	}()
}

// ExecuteScheduledTask dispatches one fetch request per configured target
func (s *PollScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()

	log.Info(msg.GetMessage("schedule.tick", len(s.config.Targets)), zap.String("request_id", requestID))

	for _, target := range s.config.Targets {
		s.useCase.HandleFetchRequest(context.Background(), s.buildRequest(target))
	}
}

func (s *PollScheduler) buildRequest(target Target) entity.FetchRequest {
	return entity.FetchRequest{
		APIKey:     s.config.APIKey,
		Latitude:   entity.Coordinate(target.Latitude),
		Longitude:  entity.Coordinate(target.Longitude),
		Units:      entity.Units(target.Units),
		Language:   target.Language,
		InstanceID: target.InstanceID,
	}
}

// Stop gracefully stops the scheduler
func (s *PollScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

func (s *PollScheduler) getLockTTL() time.Duration {
	if s.config.LockTTL > 0 {
		return s.config.LockTTL
	}
	return 10 * time.Minute
}

func (s *PollScheduler) getRefreshInterval() time.Duration {
	if s.config.RefreshInterval > 0 {
		return s.config.RefreshInterval
	}
	return 1 * time.Minute
}
