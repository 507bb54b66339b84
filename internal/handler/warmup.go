package handler

import (
	"context"
	"encoding/json"
	"time"
)

const (
	// WarmupSource identifies warmup events from CloudWatch
	WarmupSource = "warmup"

	// WarmupDelay keeps the instance busy briefly so concurrent pings
	// land on separate instances
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent represents the CloudWatch Event payload for warmup
type WarmupEvent struct {
	Source string `json:"source"`
}

// WarmupResponse is the response returned by warmup operations
type WarmupResponse struct {
	Status string `json:"status"`
}

// IsWarmupEvent checks if the event is a warmup event
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var eventMap map[string]interface{}
	if err := json.Unmarshal(event, &eventMap); err != nil {
		return nil, false
	}

	source, ok := eventMap["source"].(string)
	if !ok || source != WarmupSource {
		return nil, false
	}

	return &WarmupEvent{Source: source}, true
}

// HandleWarmup answers a warmup event
func HandleWarmup(ctx context.Context, warmup *WarmupEvent) (interface{}, error) {
	select {
	case <-time.After(WarmupDelay):
	case <-ctx.Done():
	}

	return map[string]interface{}{
		"statusCode": 200,
		"body":       WarmupResponse{Status: "warm"},
	}, nil
}
