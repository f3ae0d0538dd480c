package interfaces

import (
	"context"

	"moral-village-server/shared/messaging"
)

// GameEventPublisher emits gameplay events for downstream consumers
// (analytics, notifications). Publishing is best-effort; gameplay never
// blocks on it.
type GameEventPublisher interface {
	PublishChoiceRecorded(ctx context.Context, payload messaging.ChoiceRecordedPayload) error
	PublishStoryCompleted(ctx context.Context, payload messaging.StoryCompletedPayload) error
}
