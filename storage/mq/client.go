package mq

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/PlxloYzb/kbk-attendance-server/config"
)

const (
	ExchangeAttendance      = "attendance.events"
	QueueSyncCompleted      = "attendance.sync.completed"
	RoutingKeySyncCompleted = "sync.completed"
)

var (
	conn *amqp.Connection
	once sync.Once
)

func Init() error {
	var err error
	once.Do(func() {
		conn, err = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if err != nil {
			return
		}
		err = declareTopology()
	})
	return err
}

func declareTopology() error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ExchangeAttendance, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueSyncCompleted, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(QueueSyncCompleted, RoutingKeySyncCompleted, ExchangeAttendance, false, nil)
}

func Connection() *amqp.Connection {
	return conn
}

func Close() error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}
