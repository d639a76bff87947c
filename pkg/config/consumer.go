package config

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewConsumer(queueName string) (*Consumer, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, err
	}

	// 单条预取，避免一个慢池阻塞时囤积大量校正消息
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, err
	}

	q, err := declareQueue(ch, queueName)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:    RabbitMQ,
		channel: ch,
		queue:   q.Name,
	}, nil
}

// Consume blocks and feeds queue messages to handler.
// Handler 返回错误时消息重新入队，由调用方自行做去重与熔断。
func (c *Consumer) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return err
	}

	log.Infof("> Consumer listening on queue %s", c.queue)

	for msg := range msgs {
		if err := handler(msg.Body); err != nil {
			log.Errorf("Handle message on %s failed: %v", c.queue, err)
			msg.Nack(false, true) // requeue
		} else {
			msg.Ack(false)
		}
	}

	return nil
}

func (c *Consumer) Close() error {
	return c.channel.Close()
}
