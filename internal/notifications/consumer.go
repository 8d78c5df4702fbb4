package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"flightly/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer defines the contract for the overbooking notification worker
type Consumer interface {
	Start(ctx context.Context) error
	Close() error
}

// ConsumerConfig contains configuration for the Kafka consumer group
type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topic            string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "flightly-overbooking-workers",
		Topic:            "overbooking-notifications",
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

// KafkaConsumer consumes overbooking notifications and hands them to the
// handling logic (currently structured logging; rebooking hooks attach here).
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	logger        *logger.Logger
}

// NewKafkaConsumer creates a new overbooking notification consumer
func NewKafkaConsumer(config *ConsumerConfig, appLogger *logger.Logger) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		logger:        appLogger,
	}, nil
}

// Start runs the consume loop until the context is cancelled
func (kc *KafkaConsumer) Start(ctx context.Context) error {
	go kc.handleErrors()

	handler := &overbookingHandler{logger: kc.logger}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := kc.consumerGroup.Consume(ctx, []string{kc.config.Topic}, handler); err != nil {
				kc.logger.Error("Consumer error", slog.Any("error", err))
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		kc.logger.Error("Consumer group error", slog.Any("error", err))
	}
}

// Close shuts down the consumer group
func (kc *KafkaConsumer) Close() error {
	return kc.consumerGroup.Close()
}

// overbookingHandler implements sarama.ConsumerGroupHandler
type overbookingHandler struct {
	logger *logger.Logger
}

func (h *overbookingHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *overbookingHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *overbookingHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var notification OverbookingNotification
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			h.logger.Error("Failed to decode overbooking notification",
				slog.Any("error", err),
				slog.Int64("offset", message.Offset),
			)
			session.MarkMessage(message, "")
			continue
		}

		h.logger.Info("Overbooking notification received",
			slog.String("flight_id", notification.FlightID.String()),
			slog.String("flight_code", notification.FlightCode),
			slog.Int("bumped_passengers", len(notification.Passengers)),
		)
		session.MarkMessage(message, "")
	}
	return nil
}
