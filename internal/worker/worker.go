// Package worker implements the Redis-backed background job system: a
// Dispatcher that enqueues jobs after a workflow commits, and a Pool of
// goroutines that consume them. Jobs are best-effort — the workflows they
// follow are already durable, so a lost job never loses business data.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// QueuePending holds jobs waiting for a worker.
	QueuePending = "jobs:pending"
	// QueueDead holds jobs that exhausted their attempts.
	QueueDead = "jobs:dead"

	maxAttempts = 3
)

// Job types.
const (
	JobStockAudit    = "stock_audit"
	JobLowStockAlert = "low_stock_alert"
)

type Job struct {
	Type     string          `json:"type"`
	Attempts int             `json:"attempts"`
	Payload  json.RawMessage `json:"payload"`
}

// StockAuditPayload asks the audit handler to re-verify the ledger/cache
// consistency of the listed products.
type StockAuditPayload struct {
	ProductIDs []string `json:"product_ids"`
}

// LowStockAlertPayload notifies staff that a product dropped to or below
// the configured threshold.
type LowStockAlertPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// Handler processes one job. Returning an error requeues the job until
// maxAttempts, then parks it on the dead queue.
type Handler func(ctx context.Context, job Job) error

// Dispatcher enqueues jobs. A nil Dispatcher (or one built on a nil client)
// is valid and drops every job, so unit tests and redis-less deployments
// need no special casing.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload any) {
	if d == nil || d.rdb == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("job_type", jobType).Msg("marshal job payload")
		return
	}
	job, err := json.Marshal(Job{Type: jobType, Payload: raw})
	if err != nil {
		log.Error().Err(err).Str("job_type", jobType).Msg("marshal job")
		return
	}
	if err := d.rdb.LPush(ctx, QueuePending, job).Err(); err != nil {
		log.Error().Err(err).Str("job_type", jobType).Msg("enqueue job")
	}
}

// EnqueueStockAudit schedules a ledger-versus-cache check for the products
// touched by a just-committed workflow.
func (d *Dispatcher) EnqueueStockAudit(ctx context.Context, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	d.enqueue(ctx, JobStockAudit, StockAuditPayload{ProductIDs: productIDs})
}

// EnqueueLowStockAlert schedules a low-stock notification email.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, productID, name string, stock int) {
	d.enqueue(ctx, JobLowStockAlert, LowStockAlertPayload{
		ProductID: productID,
		Name:      name,
		Stock:     stock,
	})
}

// Pool consumes QueuePending with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	size     int
	handlers map[string]Handler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a job type. Must be called before Start.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("worker pool started")
}

// Stop cancels the consume loops and waits for in-flight jobs.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	log.Info().Msg("worker pool stopped")
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		res, err := p.rdb.BRPop(ctx, 5*time.Second, QueuePending).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("brpop failed")
			time.Sleep(time.Second)
			continue
		}
		// res[0] is the queue name, res[1] the job body.
		p.process(ctx, []byte(res[1]))
	}
}

func (p *Pool) process(ctx context.Context, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("malformed job, dropping")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("job_type", job.Type).Msg("no handler for job, dropping")
		return
	}

	if err := h(ctx, job); err != nil {
		job.Attempts++
		log.Warn().Err(err).
			Str("job_type", job.Type).
			Int("attempts", job.Attempts).
			Msg("job failed")

		encoded, merr := json.Marshal(job)
		if merr != nil {
			return
		}
		queue := QueuePending
		if job.Attempts >= maxAttempts {
			queue = QueueDead
			log.Error().Str("job_type", job.Type).Msg("job moved to dead queue")
		}
		if perr := p.rdb.LPush(ctx, queue, encoded).Err(); perr != nil {
			log.Error().Err(perr).Str("job_type", job.Type).Msg("requeue failed")
		}
	}
}
