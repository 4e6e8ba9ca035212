package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
)

// indexCleanupTimeout bounds the background removal of an ended session's
// semantic index entry.
const indexCleanupTimeout = 10 * time.Second

// degradedReply is returned when the accepted handler fails internally.
const degradedReply = "I hit a snag handling that. Could you try saying it once more?"

// orchestratorFallback is the last line of defense when no handler accepted
// the message. Distinct from the help handler's fallback so the gap is
// visible in transcripts.
const orchestratorFallback = "I wasn't able to work out what to do with that. You can start a session with someone, continue an open one, or ask me what I can do."

// ProcessMessage runs one message through context gathering, intent
// detection, handler dispatch, and response assembly. A well-formed request
// never fails: every internal error degrades to a non-empty reply.
func (uc *implUseCase) ProcessMessage(ctx context.Context, sc model.Scope, input chat.ProcessInput) (chat.ProcessOutput, error) {
	if sc.UserID == "" {
		return chat.ProcessOutput{}, chat.ErrMissingUser
	}
	if strings.TrimSpace(input.Message) == "" {
		return chat.ProcessOutput{}, chat.ErrEmptyMessage
	}

	situation := uc.gatherContext(ctx, sc, input)
	pendingState := uc.pending.Get(sc.UserID)

	detection := uc.detector.Detect(ctx, chat.DetectionInput{
		Message:           input.Message,
		HasActiveSession:  situation.active != nil,
		ActivePartnerName: situation.activePartnerName(),
		OpenSessions:      summarize(situation.open),
		SemanticMatches:   situation.matches,
		Pending:           pendingState,
	})

	result := uc.dispatch(ctx, &chat.HandlerRequest{
		Scope:         sc,
		Message:       input.Message,
		Detection:     detection,
		ActiveSession: situation.active,
		OpenSessions:  situation.open,
		Pending:       pendingState,
	})

	return uc.assemble(ctx, detection, result), nil
}

// situation is everything gathered about the caller before detection.
type situation struct {
	active  *model.Session
	open    []model.Session
	matches []chat.SemanticMatch
}

func (s *situation) activePartnerName() string {
	if s.active == nil {
		return ""
	}
	return s.active.PartnerName
}

// gatherContext loads open sessions and semantic matches concurrently; the
// two reads are independent. Either failing degrades to an empty list and
// never fails the request.
func (uc *implUseCase) gatherContext(ctx context.Context, sc model.Scope, input chat.ProcessInput) *situation {
	s := &situation{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		open, err := uc.sessions.OpenSessionsForUser(ctx, sc.UserID)
		if err != nil {
			uc.l.Errorf(ctx, "chat: failed to load sessions for user %s: %v", sc.UserID, err)
			return
		}
		s.open = open
	}()

	if uc.vectors != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := uc.vectors.SearchSessions(ctx, repository.SearchSessionsOptions{
				UserID: sc.UserID,
				Query:  input.Message,
				Limit:  uc.searchLimit,
			})
			if err != nil {
				uc.l.Warnf(ctx, "chat: semantic search failed for user %s: %v", sc.UserID, err)
				return
			}
			for _, r := range results {
				s.matches = append(s.matches, chat.SemanticMatch{
					SessionID:   r.SessionID,
					PartnerName: r.PartnerName,
					Similarity:  r.Score,
				})
			}
		}()
	}
	wg.Wait()

	s.active = uc.resolveActive(ctx, sc, input.ActiveSessionID, s.open)
	return s
}

// resolveActive matches the client's claimed active session against the open
// list, falling back to a direct lookup for sessions the list read missed.
func (uc *implUseCase) resolveActive(ctx context.Context, sc model.Scope, activeID string, open []model.Session) *model.Session {
	if activeID == "" {
		return nil
	}
	for i := range open {
		if open[i].ID == activeID {
			return &open[i]
		}
	}

	session, err := uc.sessions.SessionByID(ctx, sc.UserID, activeID)
	if err != nil {
		uc.l.Errorf(ctx, "chat: failed to resolve active session %s: %v", activeID, err)
		return nil
	}
	if session == nil {
		return nil
	}
	if session.Status.IsTerminal() {
		uc.dropFromIndex(ctx, session.ID)
		return nil
	}
	return session
}

// dropFromIndex removes an ended session from the semantic index without
// blocking the chat turn. Failures are logged; the next sighting of the same
// stale session retries.
func (uc *implUseCase) dropFromIndex(ctx context.Context, sessionID string) {
	if uc.vectors == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		delCtx, cancel := context.WithTimeout(bg, indexCleanupTimeout)
		defer cancel()
		if err := uc.vectors.DeleteSession(delCtx, sessionID); err != nil {
			uc.l.Warnf(delCtx, "chat: failed to drop ended session %s from index: %v", sessionID, err)
		}
	}()
}

// dispatch tries candidates in strictly descending priority and stops at the
// first whose predicate accepts. Predicate errors skip the handler; execution
// errors and panics are contained and degrade the reply. A nil return means
// no handler accepted.
func (uc *implUseCase) dispatch(ctx context.Context, req *chat.HandlerRequest) *chat.HandlerResult {
	for _, handler := range uc.registry.GetHandlers(req.Detection.Intent) {
		ok, err := handler.AppliesTo(ctx, req)
		if err != nil {
			uc.l.Errorf(ctx, "chat: handler %s applicability check failed for user %s: %v",
				handler.ID(), req.Scope.UserID, err)
			continue
		}
		if !ok {
			continue
		}

		result, err := uc.execute(ctx, handler, req)
		if err != nil {
			uc.l.Errorf(ctx, "chat: handler %s failed for user %s: %v",
				handler.ID(), req.Scope.UserID, err)
			return &chat.HandlerResult{ActionType: chat.ActionReply, Message: degradedReply}
		}
		if result == nil {
			uc.l.Errorf(ctx, "chat: handler %s returned no result for user %s",
				handler.ID(), req.Scope.UserID)
			return &chat.HandlerResult{ActionType: chat.ActionReply, Message: degradedReply}
		}
		return result
	}

	uc.l.Errorf(ctx, "chat: no handler accepted intent %s for user %s; catch-all is missing",
		req.Detection.Intent, req.Scope.UserID)
	return nil
}

func (uc *implUseCase) execute(ctx context.Context, handler chat.IntentHandler, req *chat.HandlerRequest) (result *chat.HandlerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Execute(ctx, req)
}

// assemble converts the handler result into the final output, guaranteeing a
// non-empty reply for everything except an explicit pass-through.
func (uc *implUseCase) assemble(ctx context.Context, detection chat.DetectionResult, result *chat.HandlerResult) chat.ProcessOutput {
	if result == nil {
		result = &chat.HandlerResult{
			ActionType: chat.ActionFallback,
			Message:    orchestratorFallback,
		}
	}

	out := chat.ProcessOutput{
		Reply:         result.Message,
		Intent:        detection.Intent,
		Confidence:    detection.Confidence,
		Actions:       result.Actions,
		SessionChange: result.SessionChange,
		PassThrough:   result.PassThrough,
		Data:          result.Data,
	}
	if out.Reply == "" && out.PassThrough == nil {
		uc.l.Warnf(ctx, "chat: empty reply without pass-through, substituting fallback")
		out.Reply = orchestratorFallback
	}
	return out
}

func summarize(sessions []model.Session) []chat.SessionSummary {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]chat.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, chat.SessionSummary{
			ID:             s.ID,
			PartnerName:    s.PartnerName,
			Status:         string(s.Status),
			LastActivityAt: s.LastActivityAt,
		})
	}
	return out
}
