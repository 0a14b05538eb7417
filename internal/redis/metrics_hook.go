package redis

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

// MetricsHook counts every Redis command by name and outcome.
type MetricsHook struct {
	ops *prometheus.CounterVec
}

var _ goredis.Hook = (*MetricsHook)(nil)

// NewMetricsHook expects a counter with "operation" and "status" labels.
func NewMetricsHook(ops *prometheus.CounterVec) *MetricsHook {
	return &MetricsHook{ops: ops}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return next
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		err := next(ctx, cmd)
		h.ops.WithLabelValues(cmd.Name(), opStatus(err)).Inc()
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		err := next(ctx, cmds)
		h.ops.WithLabelValues("pipeline", opStatus(err)).Inc()
		return err
	}
}

func opStatus(err error) string {
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "error"
	}
	return "success"
}
