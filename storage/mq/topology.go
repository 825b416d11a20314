package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeCommunity  = "community.topic"
	ExchangeDeadLetter = "community.dlx"

	RoutingProfileOnboarded = "profile.onboarded"

	QueueProfileOnboarded    = "community.profile.onboarded"
	QueueProfileOnboardedDLQ = "community.profile.onboarded.dlq"
)

// Declarer amqp.Channel 中声明拓扑所需的方法
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// DeclareTopology 声明业务交换机、死信交换机及引导完成队列，可重复执行。
func DeclareTopology(ch Declarer) error {
	if err := ch.ExchangeDeclare(ExchangeCommunity, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeCommunity, err)
	}
	if err := ch.ExchangeDeclare(ExchangeDeadLetter, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeDeadLetter, err)
	}

	if _, err := ch.QueueDeclare(QueueProfileOnboardedDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueProfileOnboardedDLQ, err)
	}
	if err := ch.QueueBind(QueueProfileOnboardedDLQ, RoutingProfileOnboarded, ExchangeDeadLetter, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueProfileOnboardedDLQ, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange": ExchangeDeadLetter,
	}
	if _, err := ch.QueueDeclare(QueueProfileOnboarded, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueProfileOnboarded, err)
	}
	if err := ch.QueueBind(QueueProfileOnboarded, RoutingProfileOnboarded, ExchangeCommunity, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueProfileOnboarded, err)
	}

	return nil
}
