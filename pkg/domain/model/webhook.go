package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeRelease WebhookEventType = "release"
	EventTypeUnknown WebhookEventType = "unknown"
)

// Release actions that trigger a checksum run. GitHub sends "released" for
// stable releases and "prereleased" for pre-releases, never both for the
// same publication.
const (
	ReleaseActionReleased    = "released"
	ReleaseActionPrereleased = "prereleased"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., released)
	Repository string           // Repository full name
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
	Release    *ReleaseInfo     // Set for release events with complete release data
}

// IsSupportedEvent checks if the event should trigger a checksum run
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypeRelease:
		return e.Action == ReleaseActionReleased || e.Action == ReleaseActionPrereleased
	default:
		return false
	}
}
