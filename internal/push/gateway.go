// Package push is the outbound push-notification boundary. The workers only
// depend on Gateway; delivery transport details stay behind it.
package push

import (
	"context"
	"errors"
)

// ErrDeviceNotRegistered signals the token is gone for good and its Device
// row should be pruned. Transient delivery failures are returned as ordinary
// errors and retried by the queue.
var ErrDeviceNotRegistered = errors.New("device not registered")

type Message struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	ChannelID string                 `json:"channelId,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type Gateway interface {
	Send(ctx context.Context, msg Message) error
}
