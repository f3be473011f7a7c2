package messenger

import (
	"context"
	"errors"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"go.uber.org/zap"
	"time"
)

type MessageService interface {
	SendMessage(item Item, body []byte) error
	PollMessages(ctx context.Context, item Item, messages chan<- *sqs.Message)
	DeleteMessage(item Item, msg *sqs.Message) error
}

type Messenger struct {
	client sqsiface.SQSAPI
	queues map[Item]string
}

type Item string

var (
	Settlement Item = "settlement"
)

var (
	ErrQueueNotFound = errors.New("queue not found")
)

const (
	maxMessages = 10
	waitSeconds = 20
	retryDelay  = time.Second
)

func NewSqsClient(cfg config.AwsConfig) (sqsiface.SQSAPI, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, cfg.Token)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to create aws session")
		return nil, err
	}

	return sqs.New(sess), nil
}

func NewMessenger(client sqsiface.SQSAPI, queues map[Item]string) MessageService {
	return &Messenger{client: client, queues: queues}
}

func (m Messenger) SendMessage(item Item, body []byte) error {
	queueUrl, err := m.queue(item)
	if err != nil {
		return err
	}

	out, err := m.client.SendMessage(&sqs.SendMessageInput{
		QueueUrl:    aws.String(queueUrl),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("[Queue] Failed to send message")
		return err
	}

	zap.L().With(zap.String("queue", string(item)), zap.String("messageId", aws.StringValue(out.MessageId))).Debug("[Queue] Published message")

	return nil
}

// PollMessages long polls the queue until ctx is done, then closes messages.
func (m Messenger) PollMessages(ctx context.Context, item Item, messages chan<- *sqs.Message) {
	defer close(messages)

	queueUrl, err := m.queue(item)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("[Queue] Cannot poll")
		return
	}

	for ctx.Err() == nil {
		out, err := m.client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueUrl),
			MaxNumberOfMessages: aws.Int64(maxMessages),
			WaitTimeSeconds:     aws.Int64(waitSeconds),
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("[Queue] Failed to receive messages")
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, msg := range out.Messages {
			select {
			case messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (m Messenger) DeleteMessage(item Item, msg *sqs.Message) error {
	queueUrl, err := m.queue(item)
	if err != nil {
		return err
	}

	_, err = m.client.DeleteMessage(&sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueUrl),
		ReceiptHandle: msg.ReceiptHandle,
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", string(item))).Error("[Queue] Failed to delete message")
	}

	return err
}

func (m Messenger) queue(item Item) (string, error) {
	if url, ok := m.queues[item]; ok && url != "" {
		return url, nil
	}

	return "", ErrQueueNotFound
}
