// Package monitoring wraps every repository, service and handler call in a New Relic
// segment and logs its outcome once the call returns.
package monitoring

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	LayerRepository = "repositories"
	LayerService    = "services"
	LayerDelivery   = "deliveries"
	LayerUnknown    = "unknown"
)

type Monitor struct {
	ctx     context.Context
	name    string
	layer   string
	start   time.Time
	segment *newrelic.Segment
}

type initOptions struct {
	layer       string
	segmentName string
}

type InitOption func(*initOptions)

func WithLayer(layer string) InitOption {
	return func(o *initOptions) {
		o.layer = layer
	}
}

func WithSegmentName(segmentName string) InitOption {
	return func(o *initOptions) {
		o.segmentName = segmentName
	}
}

// New starts a segment named after the calling function. The layer is taken from the
// caller's source path unless given explicitly.
func New(ctx context.Context, opts ...InitOption) *Monitor {
	o := &initOptions{}
	for _, opt := range opts {
		opt(o)
	}

	// runtime.Caller(1) must stay in this function for the name to point at the caller.
	if o.segmentName == "" || o.layer == "" {
		pc, file, _, ok := runtime.Caller(1)
		if o.segmentName == "" {
			o.segmentName = "unknown"
			if fn := runtime.FuncForPC(pc); ok && fn != nil {
				o.segmentName = segmentName(fn.Name())
			}
		}
		if o.layer == "" {
			o.layer = layerOf(file)
		}
	}

	segment := newrelic.FromContext(ctx).StartSegment(o.segmentName)
	if segment != nil {
		segment.AddAttribute("layer", o.layer)
	}

	return &Monitor{
		ctx:     ctx,
		name:    o.segmentName,
		layer:   o.layer,
		start:   time.Now(),
		segment: segment,
	}
}

func layerOf(file string) string {
	for _, layer := range []string{LayerRepository, LayerService, LayerDelivery} {
		if strings.Contains(file, "/"+layer+"/") {
			return layer
		}
	}
	return LayerUnknown
}
