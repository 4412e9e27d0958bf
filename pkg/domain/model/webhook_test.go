package model_test

import (
	"testing"

	"github.com/m-mizutani/relsum/pkg/domain/model"
)

func TestWebhookEvent_IsSupportedEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    *model.WebhookEvent
		expected bool
	}{
		{
			name: "Release released - supported",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "released",
			},
			expected: true,
		},
		{
			name: "Release prereleased - supported",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "prereleased",
			},
			expected: true,
		},
		{
			name: "Release published - not supported",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "published",
			},
			expected: false,
		},
		{
			name: "Release created - not supported",
			event: &model.WebhookEvent{
				Type:   model.EventTypeRelease,
				Action: "created",
			},
			expected: false,
		},
		{
			name: "Unknown event type",
			event: &model.WebhookEvent{
				Type:   model.EventTypeUnknown,
				Action: "released",
			},
			expected: false,
		},
		{
			name: "Different event type",
			event: &model.WebhookEvent{
				Type:   model.WebhookEventType("issues"),
				Action: "opened",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.event.IsSupportedEvent()
			if got != tt.expected {
				t.Errorf("IsSupportedEvent() = %v, want %v", got, tt.expected)
			}
		})
	}
}
