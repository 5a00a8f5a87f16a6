package model

// Event is anything the messaging gateway can publish; the id keys the Kafka
// message for per-order ordering.
type Event interface {
	GetId() string
}
