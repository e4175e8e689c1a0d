package queue

import (
	"context"
	"sync"
	"time"

	"browser-crawler/internal/utils"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Seeds         []string
	ConsumerGroup string
	Topic         string
}

type KafkaQueue struct {
	logger       *zap.SugaredLogger
	client       *kgo.Client
	topic        string
	consumerChan chan []byte
	producerChan chan []byte
}

func NewKafkaQueue(logger *zap.SugaredLogger, cfg *KafkaConfig) (*KafkaQueue, error) {
	tracer := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer()))

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Seeds...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.WithHooks(tracer.Hooks()...),
	)
	if err != nil {
		return nil, err
	}

	return &KafkaQueue{
		logger:       logger,
		client:       client,
		topic:        cfg.Topic,
		consumerChan: make(chan []byte, ChannelBufferLimit),
		producerChan: make(chan []byte, ChannelBufferLimit),
	}, nil
}

func (q *KafkaQueue) GetProducerChan() chan<- []byte {
	return q.producerChan
}

func (q *KafkaQueue) GetConsumerChan() <-chan []byte {
	return q.consumerChan
}

func (q *KafkaQueue) StartQueueConsumer() {
	timer := time.NewTimer(queueTimeout)
	utils.DrainTimer(timer)

	for {
		fetches := q.getFetches()
		if fetches.IsClientClosed() {
			close(q.consumerChan)
			return
		}

		iter := fetches.RecordIter()

		var recordsToCommit []*kgo.Record

		for !iter.Done() {
			record := iter.Next()
			if record == nil {
				continue
			}

			timer.Reset(queueTimeout)

			select {
			case q.consumerChan <- record.Value:
				utils.DrainTimer(timer)
			case <-timer.C:
				q.logger.Warnw("Dropping record due to slow consumer or full channel", "topic", q.topic)
			}

			recordsToCommit = append(recordsToCommit, record)
		}

		if len(recordsToCommit) > 0 {
			q.commitRecords(recordsToCommit...)
		}
	}
}

func (q *KafkaQueue) getFetches() kgo.Fetches {
	ctx, cancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer cancel()

	return q.client.PollFetches(ctx)
}

func (q *KafkaQueue) commitRecords(records ...*kgo.Record) {
	commitCtx, commitCancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer commitCancel()

	if err := q.client.CommitRecords(commitCtx, records...); err != nil {
		q.logger.Warnw("Failed to commit records in kafka", "topic", q.topic, "err", err)
	}
}

func (q *KafkaQueue) StartQueueProducer() {
	items := make([][]byte, 0, ChannelBufferLimit)

	flushTicker := time.NewTicker(tickerTimeout)
	defer flushTicker.Stop()

	for {
		select {
		case item, ok := <-q.producerChan:
			if !ok {
				q.flush(items)
				return
			}

			items = append(items, item)
			if len(items) >= ChannelBufferLimit {
				q.flush(items)
				items = make([][]byte, 0, ChannelBufferLimit)
			}
		case <-flushTicker.C:
			if len(items) > 0 {
				q.flush(items)
				items = make([][]byte, 0, ChannelBufferLimit)
			}
		}
	}
}

func (q *KafkaQueue) flush(items [][]byte) {
	if len(items) == 0 {
		return
	}

	records := make([]*kgo.Record, 0, len(items))
	for _, item := range items {
		records = append(records, &kgo.Record{
			Topic: q.topic,
			Value: item,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, record := range records {
		wg.Add(1)
		q.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
			defer wg.Done()
			if err != nil {
				q.logger.Warnw("Failed to produce record in kafka", "topic", q.topic, "err", err)
			}
		})
	}
	wg.Wait()
}

func (q *KafkaQueue) CloseQueue(ctx context.Context) error {
	if err := drainAndCloseChannel(ctx, q.producerChan); err != nil {
		return err
	}

	q.client.Close()
	return nil
}
