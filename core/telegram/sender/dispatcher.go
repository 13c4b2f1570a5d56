package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sporttich/sportbot/core/logger"
	"github.com/sporttich/sportbot/core/telegram/netutil"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the total time spent on one job, retries included.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls on a worker pool, retrying
// transient failures so handlers never block on the Bot API.
type Dispatcher struct {
	opts Options
	jobs chan job
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
}

// NewDispatcher starts the worker pool; zeroed options pick sane defaults.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		opts: opts.withDefaults(),
		stop: make(chan struct{}),
	}
	d.jobs = make(chan job, d.opts.QueueSize)

	d.wg.Add(d.opts.Workers)
	for range d.opts.Workers {
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				d.process(j)
			}
		}()
	}
	return d
}

// Enqueue schedules run for asynchronous execution. The closure must be
// idempotent when retries are enabled. A saturated queue rejects the job
// instead of blocking the caller.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case d.jobs <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns how many jobs exhausted their retries.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits for queued ones to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.stop)
		close(d.jobs)
		d.wg.Wait()
	})
}

func (d *Dispatcher) process(j job) {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	deadline, cancel := context.WithTimeout(ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	logger.Debug(ctx, "tg.sender", "send.start", j.logAttrs(ctx)...)

	attempts := d.opts.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		if err := deadline.Err(); err != nil {
			d.fail(ctx, j, err, attempts, start)
			return
		}

		err := j.run()
		if err == nil {
			d.succeed(ctx, j, attempt, start)
			return
		}
		if !netutil.ShouldRetry(err) || attempt == attempts {
			d.fail(ctx, j, err, attempts, start)
			return
		}

		delay := d.opts.RetryBackoff * time.Duration(attempt)
		if !sleepCtx(deadline, delay) {
			d.fail(ctx, j, deadline.Err(), attempts, start)
			return
		}
		logger.Debug(ctx, "tg.sender", "send.retry.backoff",
			append(j.logAttrs(ctx),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)...,
		)
	}
}

func (d *Dispatcher) succeed(ctx context.Context, j job, attempt int, start time.Time) {
	elapsed := elapsedMS(start)
	if attempt > 1 {
		logger.Info(ctx, "tg.sender", "send.retry.success",
			append(j.logAttrs(ctx),
				slog.Int("attempt", attempt),
				slog.Int("elapsed_ms", elapsed),
			)...,
		)
	}
	attrs := j.logAttrs(ctx)
	if attempt > 1 {
		attrs = append(attrs, slog.Int("attempt", attempt))
	}
	attrs = append(attrs, slog.Int("elapsed_ms", elapsed))
	logger.Debug(ctx, "tg.sender", "send.success", attrs...)
}

func (d *Dispatcher) fail(ctx context.Context, j job, err error, attempts int, start time.Time) {
	d.errs.Add(1)
	attrs := append(j.logAttrs(ctx),
		slog.String("err", netutil.SanitizeErrorMessage(err)),
		slog.String("err_code", netutil.Classify(err)),
		slog.Int("elapsed_ms", elapsedMS(start)),
		slog.Int("attempts", attempts),
	)
	if code := netutil.HTTPStatusFromError(err); code != 0 {
		attrs = append(attrs, slog.Int("http_code", code))
	}
	logger.Error(ctx, "tg.sender", "send.fail", attrs...)
}

func (j job) logAttrs(ctx context.Context) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	if rid := logger.RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if updateID := logger.UpdateIDFrom(ctx); updateID != 0 {
		attrs = append(attrs, slog.Int("update_id", updateID))
	}
	if chatID := logger.ChatIDFrom(ctx); chatID != 0 {
		attrs = append(attrs, slog.Int64("chat_id", chatID))
	}
	if userID := logger.UserIDFrom(ctx); userID != 0 {
		attrs = append(attrs, slog.Int64("user_id", userID))
	}
	return attrs
}

// sleepCtx waits for d, reporting false if ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func elapsedMS(start time.Time) int {
	d := time.Since(start)
	if d <= 0 {
		return 0
	}
	return int(logger.RoundMS(d) / time.Millisecond)
}
