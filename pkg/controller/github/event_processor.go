package github

import (
	"context"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/interfaces"
	"github.com/m-mizutani/relsum/pkg/domain/model"
)

// Delivery carries the request metadata of a GitHub webhook delivery
type Delivery struct {
	ID         string // X-GitHub-Delivery
	EventType  string // X-GitHub-Event
	RawPayload []byte
}

// EventProcessor converts parsed GitHub webhook payloads into domain events
type EventProcessor struct {
	webhookUC interfaces.WebhookUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(webhookUC interfaces.WebhookUseCase) *EventProcessor {
	return &EventProcessor{
		webhookUC: webhookUC,
	}
}

// ProcessEvent builds a WebhookEvent from payload and hands it to the use case
func (p *EventProcessor) ProcessEvent(ctx context.Context, delivery Delivery, payload any) error {
	event := &model.WebhookEvent{
		ID:         delivery.ID,
		Type:       model.WebhookEventType(delivery.EventType),
		ReceivedAt: time.Now(),
		RawPayload: delivery.RawPayload,
	}

	switch e := payload.(type) {
	case *github.ReleaseEvent:
		event.Action = e.GetAction()
		event.Repository = e.GetRepo().GetFullName()
		event.Sender = e.GetSender().GetLogin()

		release, err := extractReleaseInfo(e)
		if err != nil {
			ctxlog.From(ctx).Warn("Incomplete release event",
				"id", delivery.ID,
				"action", e.GetAction(),
				"error", err,
			)
		}
		event.Release = release

	default:
		ctxlog.From(ctx).Info("Ignoring unsupported event type", "event_type", delivery.EventType)
		event.Type = model.EventTypeUnknown
	}

	return p.webhookUC.ProcessEvent(ctx, event)
}

// extractReleaseInfo extracts release information from a GitHub release event
func extractReleaseInfo(event *github.ReleaseEvent) (*model.ReleaseInfo, error) {
	if event.GetRepo() == nil {
		return nil, goerr.New("missing repository information in release event")
	}
	if event.GetRelease() == nil {
		return nil, goerr.New("missing release information in release event")
	}

	owner := event.GetRepo().GetOwner().GetLogin()
	repo := event.GetRepo().GetName()
	tagName := event.GetRelease().GetTagName()

	if owner == "" || repo == "" || tagName == "" {
		return nil, goerr.New("missing required fields",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tagName),
		)
	}

	return &model.ReleaseInfo{
		Owner:       owner,
		Repo:        repo,
		TagName:     tagName,
		ReleaseName: event.GetRelease().GetName(),
		Prerelease:  event.GetRelease().GetPrerelease(),
	}, nil
}
