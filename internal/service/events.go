package service

import (
	"encoding/json"

	ws "flourerp/internal/websocket"
)

// WorkflowEvent is the payload broadcast to dashboards on every transition
type WorkflowEvent struct {
	Event         string `json:"event"`
	RequestNumber string `json:"request_number"`
	Status        string `json:"status"`
	By            string `json:"by"`
}

// publishEvent pushes a transition event to the hub, if one is attached
func publishEvent(hub *ws.Hub, event, requestNumber, status, by string) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(WorkflowEvent{
		Event:         event,
		RequestNumber: requestNumber,
		Status:        status,
		By:            by,
	})
	if err != nil {
		return
	}
	hub.Broadcast <- payload
}
