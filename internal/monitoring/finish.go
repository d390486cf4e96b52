package monitoring

import (
	"time"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
)

var messagePrefix = map[string]string{
	LayerRepository: "[REPOSITORY]",
	LayerService:    "[SERVICE]",
	LayerDelivery:   "[DELIVERY]",
	LayerUnknown:    "[-]",
}

type finishOptions struct {
	err    error
	fields []log.Field
}

type FinishOption func(*finishOptions)

func WithFinishCheckError(err error) FinishOption {
	return func(o *finishOptions) {
		o.err = err
	}
}

func WithFinishFields(fields ...log.Field) FinishOption {
	return func(o *finishOptions) {
		o.fields = append(o.fields, fields...)
	}
}

// Finish ends the segment. Failures are logged at warn on every layer, successes only on
// the service and delivery layers.
func (m *Monitor) Finish(opts ...FinishOption) {
	o := &finishOptions{}
	for _, opt := range opts {
		opt(o)
	}

	fields := append(o.fields,
		log.String("segment", m.name),
		log.Duration("processDuration", time.Since(m.start)))

	switch {
	case o.err != nil:
		fields = append(fields, log.String("status", "error"), log.Err(o.err))
		log.Warn(m.ctx, messagePrefix[m.layer], fields...)
	case m.layer == LayerDelivery || m.layer == LayerService:
		fields = append(fields, log.String("status", "success"))
		log.Info(m.ctx, messagePrefix[m.layer], fields...)
	}

	if m.segment != nil {
		m.segment.End()
	}
}
