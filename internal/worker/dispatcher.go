// Package worker runs the background side of the transaction core: receipt
// generation after a sale and the reconciliation report after a session close.
// Jobs travel through a redis list; a fixed pool of goroutines consumes them
// with BRPOP, retries transient failures and parks poison jobs in a dead
// letter queue.
package worker

import (
	"context"
	"encoding/json"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey = "ferreteria:jobs"
	dlqKey   = "ferreteria:jobs:dlq"

	JobRecibo = "recibo"
	JobCierre = "cierre"

	maxJobAttempts = 3
)

// Job is the wire format pushed onto the redis queue.
type Job struct {
	Tipo         string  `json:"tipo"`
	ReferenciaID string  `json:"referencia_id"`
	Email        *string `json:"email,omitempty"`
	Intentos     int     `json:"intentos"`
}

type redisDispatcher struct {
	rdb *redis.Client
}

var _ service.JobDispatcher = (*redisDispatcher)(nil)

// NewDispatcher returns the redis-backed service.JobDispatcher.
func NewDispatcher(rdb *redis.Client) service.JobDispatcher {
	return &redisDispatcher{rdb: rdb}
}

func (d *redisDispatcher) DispatchRecibo(ctx context.Context, facturaID uuid.UUID, email *string) error {
	return d.push(ctx, Job{Tipo: JobRecibo, ReferenciaID: facturaID.String(), Email: email})
}

func (d *redisDispatcher) DispatchCierre(ctx context.Context, sesionCajaID uuid.UUID) error {
	return d.push(ctx, Job{Tipo: JobCierre, ReferenciaID: sesionCajaID.String()})
}

func (d *redisDispatcher) push(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queueKey, raw).Err()
}
