package service

import (
	"fmt"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
)

// Notifier receives events after the transaction that produced them committed.
type Notifier interface {
	Publish(event interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(interface{}) {}

// StockEvent is pushed to websocket clients for each committed movement.
type StockEvent struct {
	Type       string             `json:"type"`
	Action     string             `json:"action"`
	MovementID uuid.UUID          `json:"movement_id"`
	Item       model.ItemSummary  `json:"item"`
	Kind       model.MovementKind `json:"kind"`
	Quantity   int                `json:"quantity"`
	StockAfter int                `json:"stock_after"`
	OrderID    *uuid.UUID         `json:"order_id,omitempty"`
	UserID     string             `json:"user_id"`
	Message    string             `json:"message"`
}

func newStockEvent(m *model.StockMovement) StockEvent {
	ev := StockEvent{
		Type:       "stock_update",
		Action:     "movement_registered",
		MovementID: m.ID,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
		StockAfter: m.StockAfter,
		OrderID:    m.OrderID,
		UserID:     m.UserID,
	}
	if m.Item != nil {
		ev.Item = *m.Item
	}
	verb := "added"
	if m.Kind == model.MovementOut {
		verb = "removed"
	}
	ev.Message = fmt.Sprintf("%d units %s for '%s' (stock %d)", m.Quantity, verb, ev.Item.Name, m.StockAfter)
	return ev
}
