// Package notify fans out "track changed" notifications to subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"bnfm/model"
)

// PushPayload wraps one notification for every push platform the mobile
// apps consume: a common default plus GCM and APNS specific envelopes.
type PushPayload struct {
	Default string `json:"default"`
	GCM     string `json:"GCM"`
	APNS    string `json:"APNS"`
}

// Channel publishes a payload to every subscriber of the now-playing
// topic. Delivery is best effort; there is no exactly-once guarantee.
type Channel interface {
	Publish(ctx context.Context, payload PushPayload) error
}

// BuildPushPayload renders the multi-format envelope for a track.
func BuildPushPayload(t model.Track) (PushPayload, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return PushPayload{}, fmt.Errorf("failed to marshal track %s: %w", t.ID, err)
	}

	wrapped, err := json.Marshal(map[string]model.Track{"data": t})
	if err != nil {
		return PushPayload{}, fmt.Errorf("failed to marshal GCM envelope: %w", err)
	}

	apns, err := json.Marshal(map[string]any{
		"aps":  map[string]any{"content-available": 1},
		"data": t,
	})
	if err != nil {
		return PushPayload{}, fmt.Errorf("failed to marshal APNS envelope: %w", err)
	}

	return PushPayload{
		Default: string(raw),
		GCM:     string(wrapped),
		APNS:    string(apns),
	}, nil
}
