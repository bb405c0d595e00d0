package rabbitmq_client

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"stockrating/types"
)

type Publisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queue      amqp.Queue
}

// Dial connects to RabbitMQ and declares the durable queue events go to.
func Dial(server, port, user, pass, queueName string) (*Publisher, error) {
	zap.L().Sugar().Infof("RabbitMQ Server: %s", server)
	zap.L().Sugar().Infof("RabbitMQ Port: %s", port)

	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, server, port))
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ initialization failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("RabbitMQ - Failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName, // Name of the queue
		true,      // Durable
		false,     // Delete when unused
		false,     // Exclusive
		false,     // No-wait
		nil,       // Arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("RabbitMQ - Failed to declare a queue: %w", err)
	}

	zap.L().Info("Connected to RabbitMQ.")
	return &Publisher{connection: conn, channel: ch, queue: q}, nil
}

func (p *Publisher) SendMessage(event types.AnalysisEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	zap.L().Sugar().Debugf("Sending message to rabbitmq: %s", message)
	return p.channel.Publish(
		"",           // Exchange (empty means default)
		p.queue.Name, // Routing key (queue name in this case)
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        message,
		})
}

func (p *Publisher) Close() {
	p.channel.Close()
	p.connection.Close()
}
