package kafka_client

import (
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"stockrating/types"
)

type Producer struct {
	producer *kafka.Producer
	topic    string
}

// NewProducer connects to the brokers and starts the delivery report loop.
func NewProducer(bootstrapServers, topic string) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
		"client.id":         "stockrating",
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	// Delivery report handler for produced messages
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					zap.L().Error("Kafka Delivery failed: ", zap.Any("error", ev.TopicPartition.Error.Error()))
				} else {
					zap.L().Sugar().Debugf("Delivered message to %s", *ev.TopicPartition.Topic)
				}
			}
		}
	}()

	zap.L().Info("Connected to Kafka", zap.String("topic", topic))
	return &Producer{producer: p, topic: topic}, nil
}

func (p *Producer) SendMessage(event types.AnalysisEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	zap.L().Sugar().Debugf("Sending message to kafka: %s", message)
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Symbol),
		Value:          message,
	}, nil)
}

// Close flushes outstanding messages for up to five seconds.
func (p *Producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
