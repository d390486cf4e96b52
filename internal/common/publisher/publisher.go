package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
)

const logIdentifier = "[KAFKA-PUBLISHER]"

type Publisher interface {
	Publish(ctx context.Context, message any, opts ...PublishOption) error
}

type publishOptions struct {
	key     string
	headers map[string]string
}

type PublishOption func(*publishOptions)

func WithKey(key string) PublishOption {
	return func(opts *publishOptions) {
		opts.key = key
	}
}

func WithHeaders(headers map[string]string) PublishOption {
	return func(opts *publishOptions) {
		opts.headers = headers
	}
}

type publisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.PublisherPrometheusMetrics
}

// NewPublisher sends JSON messages to topic. m may be nil.
func NewPublisher(p sarama.SyncProducer, topic string, m *metrics.PublisherPrometheusMetrics) Publisher {
	return &publisher{
		producer: p,
		topic:    topic,
		metrics:  m,
	}
}

func (p *publisher) Publish(ctx context.Context, message any, opts ...PublishOption) (err error) {
	start := time.Now()
	defer func() { p.metrics.Observe(start, p.topic, err) }()

	options := &publishOptions{}
	for _, opt := range opts {
		opt(options)
	}

	msg, err := p.prepareMessage(ctx, message, options)
	if err != nil {
		log.Error(ctx, logIdentifier, log.String("status", "failed prepare message"), log.Err(err))
		return err
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.Error(ctx, logIdentifier,
			log.String("status", "failed send message"),
			log.String("topic", p.topic),
			log.Err(err))
		return err
	}

	log.Info(ctx, logIdentifier,
		log.String("status", "success publish message"),
		log.String("topic", p.topic),
		log.Int("partition", int(partition)),
		log.Int64("offset", offset))

	return nil
}

func (p *publisher) prepareMessage(ctx context.Context, message any, opts *publishOptions) (*sarama.ProducerMessage, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(body),
	}
	if opts.key != "" {
		msg.Key = sarama.StringEncoder(opts.key)
	}

	headers := make([]sarama.RecordHeader, 0, len(opts.headers)+1)
	if id := log.CorrelationID(ctx); id != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte(HeaderCorrelationID), Value: []byte(id)})
	}
	for k, v := range opts.headers {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	if len(headers) > 0 {
		msg.Headers = headers
	}

	return msg, nil
}

const HeaderCorrelationID = "X-Correlation-ID"
