package usecase

import (
	"context"
	"sync"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/log"
)

// fakeDetector returns a canned detection result.
type fakeDetector struct {
	detectFn func(ctx context.Context, input chat.DetectionInput) chat.DetectionResult
	lastIn   chat.DetectionInput
}

func (f *fakeDetector) Detect(ctx context.Context, input chat.DetectionInput) chat.DetectionResult {
	f.lastIn = input
	if f.detectFn != nil {
		return f.detectFn(ctx, input)
	}
	return chat.DetectionResult{Intent: chat.IntentUnknown, Confidence: chat.ConfidenceLow}
}

// stubHandler is a configurable chat.IntentHandler.
type stubHandler struct {
	id        string
	intents   []chat.Intent
	priority  int
	appliesFn func(ctx context.Context, req *chat.HandlerRequest) (bool, error)
	executeFn func(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error)
	executed  bool
}

func (h *stubHandler) ID() string             { return h.id }
func (h *stubHandler) Name() string           { return h.id }
func (h *stubHandler) Intents() []chat.Intent { return h.intents }
func (h *stubHandler) Priority() int          { return h.priority }

func (h *stubHandler) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	if h.appliesFn != nil {
		return h.appliesFn(ctx, req)
	}
	return true, nil
}

func (h *stubHandler) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	h.executed = true
	if h.executeFn != nil {
		return h.executeFn(ctx, req)
	}
	return &chat.HandlerResult{ActionType: chat.ActionReply, Message: "handled by " + h.id}, nil
}

// fakeSessionRepo implements repository.SessionRepository.
type fakeSessionRepo struct {
	openSessions  []model.Session
	openErr       error
	sessionByIDFn func(ctx context.Context, userID, sessionID string) (*model.Session, error)
}

func (f *fakeSessionRepo) OpenSessionsForUser(ctx context.Context, userID string) ([]model.Session, error) {
	return f.openSessions, f.openErr
}

func (f *fakeSessionRepo) SessionByID(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	if f.sessionByIDFn != nil {
		return f.sessionByIDFn(ctx, userID, sessionID)
	}
	return nil, nil
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
	return model.Session{}, nil
}

func (f *fakeSessionRepo) PushTokenForUser(ctx context.Context, userID string) (string, error) {
	return "", nil
}

// fakeVectorRepo implements repository.VectorRepository. When deleted is
// non-nil, DeleteSession reports each removed ID on it.
type fakeVectorRepo struct {
	results   []repository.SearchResult
	searchErr error
	deleted   chan string
}

func (f *fakeVectorRepo) IndexSession(ctx context.Context, userID string, session model.Session) error {
	return nil
}

func (f *fakeVectorRepo) SearchSessions(ctx context.Context, opt repository.SearchSessionsOptions) ([]repository.SearchResult, error) {
	return f.results, f.searchErr
}

func (f *fakeVectorRepo) DeleteSession(ctx context.Context, sessionID string) error {
	if f.deleted != nil {
		f.deleted <- sessionID
	}
	return nil
}

// fakePendingStore is an in-memory chat.PendingStore.
type fakePendingStore struct {
	mu     sync.Mutex
	states map[string]chat.PendingState
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{states: make(map[string]chat.PendingState)}
}

func (f *fakePendingStore) Get(userID string) *chat.PendingState {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[userID]
	if !ok {
		return nil
	}
	return &state
}

func (f *fakePendingStore) Set(userID string, state chat.PendingState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[userID] = state
}

func (f *fakePendingStore) Clear(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, userID)
}

// fakeResolver serves a fixed ordered handler list for any intent.
type fakeResolver struct {
	handlers []chat.IntentHandler
}

func (f *fakeResolver) GetHandlers(intent chat.Intent) []chat.IntentHandler {
	return f.handlers
}

func testScope() model.Scope {
	return model.Scope{UserID: "u1", DisplayName: "Jo"}
}

func nopLogger() log.Logger {
	return log.NewNop()
}
