package service

import (
	"context"

	"github.com/google/uuid"
)

// JobDispatcher hands finished transactions to the background workers. The
// redis-backed implementation lives in the worker package; services tolerate a
// nil dispatcher (jobs are simply not enqueued), which keeps unit tests free
// of queue plumbing.
type JobDispatcher interface {
	// DispatchRecibo queues receipt generation (PDF, optional email) for a factura.
	DispatchRecibo(ctx context.Context, facturaID uuid.UUID, email *string) error
	// DispatchCierre queues the reconciliation report for a closed session.
	DispatchCierre(ctx context.Context, sesionCajaID uuid.UUID) error
}
