// Package store implements the Message Store: the canonical persistence
// layer for Messages, their accumulated Translations, and Reactions.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fathima-sithara/lingua-relay/internal/detect"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// MaxChannelMessages is the hard cap on getChannelMessages' limit
// parameter (§4.G: "most recent min(limit, 100)").
const MaxChannelMessages = 100

// Detector is the subset of detect.Detector the store needs to assign a
// source language at creation time when one is not supplied.
type Detector interface {
	Detect(text string) detect.Result
}

// Store is an in-memory, concurrency-safe Message Store. It is the
// canonical persistence layer referenced by the Pipeline Orchestrator; a
// partial Mongo-backed counterpart lives in internal/store/mongostore, whose
// method set differs from this one and does not satisfy the same
// interfaces.
type Store struct {
	mu       sync.Mutex
	messages map[string]*domain.Message
	byChannel map[string][]string // channelId -> message IDs, insertion order
	seq      int64

	detector Detector
}

// New constructs an in-memory Store.
func New(detector Detector) *Store {
	return &Store{
		messages:  make(map[string]*domain.Message),
		byChannel: make(map[string][]string),
		detector:  detector,
	}
}

// CreateMessage detects the source language if not supplied, persists the
// message with status=sent and an empty translation set, and returns the
// created record.
func (s *Store) CreateMessage(ctx context.Context, id, channelID, content, senderID, sourceLanguage string) (*domain.Message, error) {
	if sourceLanguage == "" {
		sourceLanguage = string(s.detector.Detect(content).Language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	m := &domain.Message{
		ID:             id,
		ChannelID:      channelID,
		SenderID:       senderID,
		Content:        content,
		SourceLanguage: sourceLanguage,
		Status:         domain.StatusSent,
		Timestamp:      time.Now().UTC(),
		Seq:            s.seq,
		Translations:   []domain.Translation{},
	}

	s.messages[id] = m
	s.byChannel[channelID] = append(s.byChannel[channelID], id)

	cp := *m
	cp.Translations = append([]domain.Translation(nil), m.Translations...)
	return &cp, nil
}

// GetMessage returns the message by id, or domain.ErrNotFound.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneMessage(m), nil
}

// UpdateStatus performs a conditional status transition, rejecting
// illegal transitions per the state machine in domain.CanTransition. It is
// a no-op (returns nil) if the message is already at newStatus, giving
// concurrent translateMessage callers an idempotent path.
func (s *Store) UpdateStatus(ctx context.Context, id string, newStatus domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Status == newStatus {
		return nil
	}
	if !domain.CanTransition(m.Status, newStatus) {
		return fmt.Errorf("%w: cannot transition %s -> %s", domain.ErrConflict, m.Status, newStatus)
	}
	m.Status = newStatus
	return nil
}

// CompareAndTransition atomically moves a message from fromStatus to
// toStatus, returning ok=false without error if the message's current
// status is not fromStatus (the caller should treat this as "someone else
// already handled it" rather than an error).
func (s *Store) CompareAndTransition(ctx context.Context, id string, fromStatus, toStatus domain.Status) (ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, found := s.messages[id]
	if !found {
		return false, domain.ErrNotFound
	}
	if m.Status != fromStatus {
		return false, nil
	}
	if !domain.CanTransition(fromStatus, toStatus) {
		return false, fmt.Errorf("%w: cannot transition %s -> %s", domain.ErrConflict, fromStatus, toStatus)
	}
	m.Status = toStatus
	return true, nil
}

// AppendTranslation is idempotent on (id, targetLanguage): if a
// translation for that target already exists, the call is a silent no-op,
// satisfying the uniqueness invariant under concurrent writers.
func (s *Store) AppendTranslation(ctx context.Context, id string, t domain.Translation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, existing := range m.Translations {
		if existing.TargetLanguage == t.TargetLanguage {
			return nil
		}
	}
	m.Translations = append(m.Translations, t)
	return nil
}

// GetChannelMessages returns the most recent min(limit, MaxChannelMessages)
// messages for channelID in strictly monotonic timestamp order (ties
// broken by insertion order), each hydrated for viewerID: translations
// are filtered to the entry matching viewerLanguage (or the full set, and
// no overlay, if viewerID is the sender).
func (s *Store) GetChannelMessages(ctx context.Context, channelID string, limit int, viewerID, viewerLanguage string) ([]*domain.Message, error) {
	if limit <= 0 || limit > MaxChannelMessages {
		limit = MaxChannelMessages
	}

	s.mu.Lock()
	ids := append([]string(nil), s.byChannel[channelID]...)
	var all []*domain.Message
	for _, id := range ids {
		all = append(all, cloneMessage(s.messages[id]))
	}
	s.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.Before(all[j].Timestamp)
		}
		return all[i].Seq < all[j].Seq
	})

	if len(all) > limit {
		all = all[len(all)-limit:]
	}

	out := make([]*domain.Message, 0, len(all))
	for _, m := range all {
		out = append(out, hydrateForViewer(m, viewerID, viewerLanguage))
	}
	return out, nil
}

// hydrateForViewer filters translations to the viewer's language, unless
// the viewer is the sender (who receives the full translation set and the
// untranslated original content with no overlay).
func hydrateForViewer(m *domain.Message, viewerID, viewerLanguage string) *domain.Message {
	cp := cloneMessage(m)
	if viewerID != "" && viewerID == m.SenderID {
		return cp
	}
	var filtered []domain.Translation
	for _, t := range m.Translations {
		if t.TargetLanguage == viewerLanguage {
			filtered = append(filtered, t)
		}
	}
	cp.Translations = filtered
	return cp
}

// DeleteChannelMessages removes all messages in channelID (used by "clear
// chat") and returns the count deleted.
func (s *Store) DeleteChannelMessages(ctx context.Context, channelID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byChannel[channelID]
	for _, id := range ids {
		delete(s.messages, id)
	}
	count := len(ids)
	delete(s.byChannel, channelID)
	return count, nil
}

// SetReaction enforces the one-reaction-per-(message,user) invariant: it
// removes any existing reaction by userID, and if the prior reaction used
// the same emoji, stops there (toggle-off); otherwise it inserts the new
// reaction. Reactions on the same (message, user) pair are serialized by
// the store's single mutex; different users may interleave freely.
func (s *Store) SetReaction(ctx context.Context, messageID, userID, emoji string) (action string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return "", domain.ErrNotFound
	}

	var prior *domain.Reaction
	idx := -1
	for i, r := range m.Reactions {
		if r.UserID == userID {
			prior = &m.Reactions[i]
			idx = i
			break
		}
	}

	if idx >= 0 {
		m.Reactions = append(m.Reactions[:idx], m.Reactions[idx+1:]...)
		if prior.Emoji == emoji {
			return "removed", nil
		}
	}

	m.Reactions = append(m.Reactions, domain.Reaction{UserID: userID, Emoji: emoji, CreatedAt: time.Now().UTC()})
	if idx >= 0 {
		return "replaced", nil
	}
	return "added", nil
}

// RemoveReaction is an explicit delete of a (message, user, emoji)
// reaction.
func (s *Store) RemoveReaction(ctx context.Context, messageID, userID, emoji string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, r := range m.Reactions {
		if r.UserID == userID && r.Emoji == emoji {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func cloneMessage(m *domain.Message) *domain.Message {
	cp := *m
	cp.Translations = append([]domain.Translation(nil), m.Translations...)
	cp.Reactions = append([]domain.Reaction(nil), m.Reactions...)
	return &cp
}
