package job

import (
	"context"
	"log/slog"
	"time"
)

type scheduledHandler func(context.Context) error

type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

type config struct {
	logger    *slog.Logger
	location  *time.Location
	schedules []scheduleConfig
	timeout   time.Duration
}

// Option configures the scheduler.
type Option func(*config)

// WithScheduledTask registers a periodic task using structural typing.
// Schedule() returns a 5-field cron expression or a descriptor such as "@hourly".
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithFunc registers fn under name on schedule.
func WithFunc(name, schedule string, fn func(context.Context) error) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{name: name, schedule: schedule, handler: fn})
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLocation sets the time zone schedules are evaluated in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithTimeout bounds each run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}
