package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dreamdive/dreamdive/internal/interpreter"
	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// MinDreamTextLen is the minimum dream description length in characters.
const MinDreamTextLen = 10

// QuotaPolicy holds the lifetime analysis ceilings per session class.
// These are orchestration-level values; the store never sees them.
type QuotaPolicy struct {
	Guest int
	User  int
}

// Ceiling returns the ceiling for the given attachment state.
func (q QuotaPolicy) Ceiling(authenticated bool) int {
	if authenticated {
		return q.User
	}
	return q.Guest
}

// AnalyzeResult pairs a persisted record with the remaining allowance.
type AnalyzeResult struct {
	Analysis       *model.DreamRecord `json:"analysis"`
	RemainingUsage int                `json:"remainingUsage"`
}

// DreamService orchestrates analysis requests. It is the only component
// that combines session state with quota policy to accept or reject work.
type DreamService struct {
	store store.Store
	ai    interpreter.Interpreter
	quota QuotaPolicy
}

func NewDreamService(s store.Store, ai interpreter.Interpreter, quota QuotaPolicy) *DreamService {
	return &DreamService{store: s, ai: ai, quota: quota}
}

// Analyze runs the full workflow: load session, authorize against quota,
// call the interpreter, persist the record and charge the session. The AI
// call and the persist+charge steps are not transactional: a store failure
// after a successful AI call loses the record and charges nothing.
func (s *DreamService) Analyze(ctx context.Context, token, dreamText string) (*AnalyzeResult, error) {
	// Reject short input before anything else so the collaborator is never
	// invoked for it.
	if len([]rune(strings.TrimSpace(dreamText))) < MinDreamTextLen {
		return nil, model.Validationf("please describe your dream in more detail (at least %d characters)", MinDreamTextLen)
	}

	sess, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}

	current := sess.UsageCount()
	max := s.quota.Ceiling(sess.Authenticated())
	if current >= max {
		if !sess.Authenticated() {
			return nil, model.ErrQuotaRequiresAuth
		}
		return nil, model.ErrQuotaExhausted
	}

	analysis, err := s.ai.Interpret(ctx, dreamText)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Dreams().Create(ctx, &model.DreamRecord{
		UserID:    sess.UserID,
		DreamText: dreamText,
		Analysis:  analysis,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Sessions().RecordUsage(ctx, token); err != nil {
		return nil, err
	}

	return &AnalyzeResult{Analysis: rec, RemainingUsage: max - current - 1}, nil
}

// Usage is the read-only projection of the session's quota state.
func (s *DreamService) Usage(ctx context.Context, token string) (*model.Usage, error) {
	sess, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}

	current := sess.UsageCount()
	max := s.quota.Ceiling(sess.Authenticated())
	return &model.Usage{
		CurrentUsage:   current,
		MaxUsage:       max,
		RemainingUsage: max - current,
		IsLoggedIn:     sess.Authenticated(),
	}, nil
}

// History returns the caller's dream records, newest first. Ties on
// creation time keep insertion order.
func (s *DreamService) History(ctx context.Context, token string) ([]*model.DreamRecord, error) {
	sess, err := s.store.Sessions().Get(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUnauthenticated
		}
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, model.ErrUnauthenticated
	}

	recs, err := s.store.Dreams().ListByUser(ctx, *sess.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}
