package messaging

import (
	"dispatch-service/src/internal/model"
	kafka "dispatch-service/src/pkg/kafka/confluent"
	"dispatch-service/src/pkg/log"
)

// TripProducer notifies vendor and vehicle owner after settlement commits.
type TripProducer struct {
	TripCompletedProducer Producer[*model.TripCompletedEvent]
}

func NewTripProducer(producer kafka.Producer, log log.Log) *TripProducer {
	return &TripProducer{
		TripCompletedProducer: Producer[*model.TripCompletedEvent]{
			Producer: producer,
			Topic:    "trip-completed",
			Log:      log,
		},
	}
}

func (p *TripProducer) SendTripCompleted(event *model.TripCompletedEvent) error {
	return p.TripCompletedProducer.Send(event)
}
