package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/queue"
	"github.com/BarkinBalci/churn-prediction-service/internal/repository"
)

const (
	channelBufferSize  = 100
	retryVisibilitySec = 30
	receiveMaxMessages = 10
	receiveWaitTimeSec = 20
)

// Consumer moves audited predictions from SQS into the warehouse through a
// receive, parse and batch-write pipeline
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(cfg config.Consumer, queueConsumer queue.QueueConsumer, repo repository.PredictionRepository, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     receiveMaxMessages,
		WaitTimeSeconds: receiveWaitTimeSec,
		ErrorBackoff:    time.Second,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONRecordParser(), retryVisibilitySec, log)

	batchWriter := NewBatchWriter(repo, BatchWriterConfig{
		MaxBatchSize: cfg.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.BatchTimeoutSec) * time.Second,
	}, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
	}
}

// Start runs the pipeline until ctx is cancelled and every stage has drained
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, channelBufferSize)
	envelopeChan := make(chan *Envelope, channelBufferSize)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
