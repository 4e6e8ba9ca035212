package usecase

import (
	"context"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/session/repository"
	pkgLog "relationship-mediator/pkg/log"
)

// IntentDetector classifies one inbound message.
type IntentDetector interface {
	Detect(ctx context.Context, input chat.DetectionInput) chat.DetectionResult
}

// HandlerResolver yields dispatch candidates for an intent, highest priority
// first.
type HandlerResolver interface {
	GetHandlers(intent chat.Intent) []chat.IntentHandler
}

type implUseCase struct {
	l           pkgLog.Logger
	detector    IntentDetector
	registry    HandlerResolver
	sessions    repository.SessionRepository
	vectors     repository.VectorRepository
	pending     chat.PendingStore
	searchLimit int
}

// New creates the chat router use case. vectors may be nil; semantic matches
// are then simply absent from detection input.
func New(
	l pkgLog.Logger,
	detector IntentDetector,
	registry HandlerResolver,
	sessions repository.SessionRepository,
	vectors repository.VectorRepository,
	pending chat.PendingStore,
) chat.UseCase {
	return &implUseCase{
		l:           l,
		detector:    detector,
		registry:    registry,
		sessions:    sessions,
		vectors:     vectors,
		pending:     pending,
		searchLimit: 3,
	}
}
