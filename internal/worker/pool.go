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

// Handler processes one job type.
type Handler interface {
	Procesar(ctx context.Context, job Job) error
}

// Pool consumes the job queue with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	size     int
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int, handlers map[string]Handler) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{rdb: rdb, handlers: handlers, size: size}
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until all of them drained their in-flight job.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("pool de workers iniciado")
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.rdb.BRPop(ctx, 5*time.Second, queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("error leyendo la cola")
			time.Sleep(time.Second)
			continue
		}
		// BRPOP returns [key, value]
		if len(res) < 2 {
			continue
		}
		p.procesar(ctx, res[1])
	}
}

func (p *Pool) procesar(ctx context.Context, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("job ilegible, descartado a DLQ")
		p.rdb.LPush(ctx, dlqKey, raw)
		return
	}

	h, ok := p.handlers[job.Tipo]
	if !ok {
		log.Error().Str("tipo", job.Tipo).Msg("job sin handler, descartado a DLQ")
		p.rdb.LPush(ctx, dlqKey, raw)
		return
	}

	if err := h.Procesar(ctx, job); err != nil {
		job.Intentos++
		log.Warn().Err(err).
			Str("tipo", job.Tipo).
			Str("referencia_id", job.ReferenciaID).
			Int("intentos", job.Intentos).
			Msg("job falló")

		reencolado, _ := json.Marshal(job)
		if job.Intentos >= maxJobAttempts {
			p.rdb.LPush(ctx, dlqKey, reencolado)
			return
		}
		p.rdb.LPush(ctx, queueKey, reencolado)
		return
	}

	log.Info().Str("tipo", job.Tipo).Str("referencia_id", job.ReferenciaID).Msg("job procesado")
}
