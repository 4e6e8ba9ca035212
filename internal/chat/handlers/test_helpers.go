package handlers

import (
	"context"
	"errors"
	"sync"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
)

// fakePendingStore is an in-memory chat.PendingStore for tests.
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

// fakeSessionRepo implements repository.SessionRepository with injectable
// behavior.
type fakeSessionRepo struct {
	sessionByIDFn   func(ctx context.Context, userID, sessionID string) (*model.Session, error)
	createSessionFn func(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error)
	openSessions    []model.Session
	pushToken       string
}

func (f *fakeSessionRepo) OpenSessionsForUser(ctx context.Context, userID string) ([]model.Session, error) {
	return f.openSessions, nil
}

func (f *fakeSessionRepo) SessionByID(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	if f.sessionByIDFn != nil {
		return f.sessionByIDFn(ctx, userID, sessionID)
	}
	return nil, nil
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
	if f.createSessionFn != nil {
		return f.createSessionFn(ctx, opt)
	}
	return model.Session{}, errors.New("createSessionFn not set")
}

func (f *fakeSessionRepo) PushTokenForUser(ctx context.Context, userID string) (string, error) {
	return f.pushToken, nil
}

// recordingInviter records invitation sends.
type recordingInviter struct {
	mu    sync.Mutex
	sent  []model.Person
	errFn func() error
	done  chan struct{}
}

func newRecordingInviter() *recordingInviter {
	return &recordingInviter{done: make(chan struct{}, 8)}
}

func (f *recordingInviter) SendInvitation(ctx context.Context, person model.Person, inviterName string) error {
	f.mu.Lock()
	f.sent = append(f.sent, person)
	f.mu.Unlock()
	f.done <- struct{}{}
	if f.errFn != nil {
		return f.errFn()
	}
	return nil
}

func (f *recordingInviter) sentTo() []model.Person {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Person, len(f.sent))
	copy(out, f.sent)
	return out
}

// fakeResponder implements chat.WitnessResponder.
type fakeResponder struct {
	respondFn func(ctx context.Context, userID, userName, message string) (*chat.WitnessReply, error)
}

func (f *fakeResponder) Respond(ctx context.Context, userID, userName, message string) (*chat.WitnessReply, error) {
	if f.respondFn != nil {
		return f.respondFn(ctx, userID, userName, message)
	}
	return &chat.WitnessReply{Response: "I hear you."}, nil
}

// recordingWitnessLog captures appended entries.
type recordingWitnessLog struct {
	mu      sync.Mutex
	entries []chat.WitnessEntry
}

func (f *recordingWitnessLog) Append(ctx context.Context, userID string, entry chat.WitnessEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func (f *recordingWitnessLog) all() []chat.WitnessEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]chat.WitnessEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

func testScope() model.Scope {
	return model.Scope{UserID: "u1", DisplayName: "Jo"}
}

func activeSession() *model.Session {
	return &model.Session{
		ID:          "s1",
		PartnerName: "Sarah",
		Status:      model.StatusActive,
		Stage:       model.StageWitness,
	}
}
