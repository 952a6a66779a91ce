package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
)

func testConsumerConfig() config.Consumer {
	return config.Consumer{
		BatchSizeMax:    10,
		BatchTimeoutSec: 1,
	}
}

func TestConsumer_Start_PipelineCoordination(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockRepo := new(MockPredictionRepository)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{testMessage("msg-1", `{"record_id": "1"}`)}}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()
	mockConsumer.On("DeleteMessage", mock.Anything, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.ToString(in.ReceiptHandle) == "receipt-msg-1"
	})).Return(&sqs.DeleteMessageOutput{}, nil).Once()

	mockParser.On("Parse", []byte(`{"record_id": "1"}`)).Return(testRecord("1"), nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(records []*domain.PredictionRecord) bool {
		return len(records) == 1 && records[0].RecordID == "1"
	})).Return(1, nil).Once()

	cfg := testConsumerConfig()
	consumer := &Consumer{
		receiver:    NewReceiver(mockConsumer, testReceiverConfig(), log),
		parser:      NewParserStage(mockConsumer, mockParser, 30, log),
		batchWriter: NewBatchWriter(mockRepo, BatchWriterConfig{MaxBatchSize: cfg.BatchSizeMax, FlushTimeout: time.Duration(cfg.BatchTimeoutSec) * time.Second}, log),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := consumer.Start(ctx)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockConsumer.AssertExpectations(t)
}

func TestConsumer_Start_GracefulShutdown(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockRepo := new(MockPredictionRepository)

	mockConsumer.On("QueueURL").Return(testQueueURL).Maybe()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	consumer := NewConsumer(testConsumerConfig(), mockConsumer, mockRepo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- consumer.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Graceful shutdown took too long")
	}

	mockRepo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestConsumer_NewConsumer_ComponentInitialization(t *testing.T) {
	consumer := NewConsumer(config.Consumer{BatchSizeMax: 100, BatchTimeoutSec: 5}, new(MockQueueConsumer), new(MockPredictionRepository), zap.NewNop())

	assert.NotNil(t, consumer.receiver)
	assert.NotNil(t, consumer.parser)
	assert.NotNil(t, consumer.batchWriter)
	assert.Equal(t, 100, consumer.batchWriter.config.MaxBatchSize)
	assert.Equal(t, 5*time.Second, consumer.batchWriter.config.FlushTimeout)
	assert.Equal(t, int32(retryVisibilitySec), consumer.parser.retryVisibilitySec)
	assert.IsType(t, &JSONRecordParser{}, consumer.parser.parser)
}
