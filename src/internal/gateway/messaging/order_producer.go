package messaging

import (
	"dispatch-service/src/internal/model"
	kafka "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"
)

// OrderProducer publishes order lifecycle events for the owner pool.
type OrderProducer struct {
	OrderCreatedProducer        Producer[*model.OrderCreatedEvent]
	AssignmentCancelledProducer Producer[*model.AssignmentCancelledEvent]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		OrderCreatedProducer: Producer[*model.OrderCreatedEvent]{
			Producer: producer,
			Topic:    "order-created",
			Log:      log,
		},
		AssignmentCancelledProducer: Producer[*model.AssignmentCancelledEvent]{
			Producer: producer,
			Topic:    "assignment-cancelled",
			Log:      log,
		},
	}
}

func (p *OrderProducer) SendOrderCreated(event *model.OrderCreatedEvent) error {
	return p.OrderCreatedProducer.Send(event)
}

func (p *OrderProducer) SendAssignmentCancelled(event *model.AssignmentCancelledEvent) error {
	return p.AssignmentCancelledProducer.Send(event)
}
