// Package pipeline implements the Pipeline Orchestrator: the single entry
// point that composes Parser -> Glossary -> cache-or-Translator -> Glossary
// restore -> Parser restore, fanning out per target language with bounded
// concurrency. The source language is the one the Message Store detected
// when the message was created.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/lingua-relay/internal/cache"
	"github.com/fathima-sithara/lingua-relay/internal/detect"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/fathima-sithara/lingua-relay/internal/glossary"
	"github.com/fathima-sithara/lingua-relay/internal/metrics"
	"github.com/fathima-sithara/lingua-relay/internal/parser"
)

// SettlementPublisher is the subset of events.Publisher the Orchestrator
// depends on; nil disables event publishing.
type SettlementPublisher interface {
	PublishSettled(ctx context.Context, messageID, channelID string, status domain.Status, targetCount, succeededCount int)
}

// MessageStore is the subset of store.Store the Orchestrator depends on.
type MessageStore interface {
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	CompareAndTransition(ctx context.Context, id string, from, to domain.Status) (bool, error)
	AppendTranslation(ctx context.Context, id string, t domain.Translation) error
}

// Translator is the subset of translator.Adapter the Orchestrator depends
// on.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// GlossaryProvider resolves the glossary protector for a message's
// community scope.
type GlossaryProvider interface {
	ProtectorFor(scope string) *glossary.Protector
}

// CacheMirror is the subset of rediscache.Mirror the Orchestrator
// consults alongside the in-process Translation Cache, so cache hits are
// shared across process instances. Nil disables it; like the in-process
// cache it is advisory and errors never propagate.
type CacheMirror interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// TargetOutcome is one target language's fan-out result, returned in the
// Orchestrator's summary.
type TargetOutcome struct {
	TargetLanguage string
	Succeeded      bool
	FromCache      bool
	Err            error
}

// Summary is translateMessage's return value: per-target outcomes plus
// the settled status.
type Summary struct {
	MessageID string
	Status    domain.Status
	Outcomes  []TargetOutcome
}

const defaultConcurrency = 8

// Config tunes bounded fan-out concurrency.
type Config struct {
	Concurrency int
}

// Orchestrator is the Pipeline Orchestrator.
type Orchestrator struct {
	store      MessageStore
	parser     *parser.Parser
	detector   *detect.Detector
	cache       *cache.Cache
	cacheMirror CacheMirror
	translator  Translator
	glossaries  GlossaryProvider
	logger      *zap.SugaredLogger
	publisher   SettlementPublisher

	concurrency int
	supported   map[string]bool

	mu       sync.Mutex
	inFlight map[string]chan struct{} // messageId -> done signal, dedupes concurrent invocations
}

// New constructs an Orchestrator.
func New(
	store MessageStore,
	p *parser.Parser,
	detector *detect.Detector,
	c *cache.Cache,
	t Translator,
	glossaries GlossaryProvider,
	supportedLanguages []string,
	cfg Config,
	logger *zap.SugaredLogger,
	publisher SettlementPublisher,
	cacheMirror CacheMirror,
) *Orchestrator {
	conc := cfg.Concurrency
	if conc <= 0 {
		conc = defaultConcurrency
	}
	supported := make(map[string]bool, len(supportedLanguages))
	for _, l := range supportedLanguages {
		supported[l] = true
	}
	return &Orchestrator{
		store:       store,
		parser:      p,
		detector:    detector,
		cache:       c,
		cacheMirror: cacheMirror,
		translator:  t,
		glossaries:  glossaries,
		logger:      logger,
		publisher:   publisher,
		concurrency: conc,
		supported:   supported,
		inFlight:    make(map[string]chan struct{}),
	}
}

// TranslateMessage is the single entry point (§4.F). Concurrent calls for
// the same messageId are collapsed: the second caller observes state and
// returns without duplicate work.
func (o *Orchestrator) TranslateMessage(ctx context.Context, messageID string, targetLanguages []string) (Summary, error) {
	done, isLeader := o.claim(messageID)
	if !isLeader {
		select {
		case <-done:
		case <-ctx.Done():
			return Summary{MessageID: messageID, Status: domain.StatusTranslating}, ctx.Err()
		}
		m, err := o.store.GetMessage(ctx, messageID)
		if err != nil {
			return Summary{}, err
		}
		return Summary{MessageID: messageID, Status: m.Status}, nil
	}
	defer o.release(messageID, done)

	return o.run(ctx, messageID, targetLanguages)
}

func (o *Orchestrator) claim(messageID string) (chan struct{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ch, exists := o.inFlight[messageID]; exists {
		return ch, false
	}
	ch := make(chan struct{})
	o.inFlight[messageID] = ch
	return ch, true
}

func (o *Orchestrator) release(messageID string, done chan struct{}) {
	o.mu.Lock()
	delete(o.inFlight, messageID)
	o.mu.Unlock()
	close(done)
}

func (o *Orchestrator) run(ctx context.Context, messageID string, targetLanguages []string) (Summary, error) {
	// Step 1: sent -> translating. If current status is not sent, return
	// without work (idempotence).
	moved, err := o.store.CompareAndTransition(ctx, messageID, domain.StatusSent, domain.StatusTranslating)
	if err != nil {
		return Summary{}, err
	}
	if !moved {
		m, err := o.store.GetMessage(ctx, messageID)
		if err != nil {
			return Summary{}, err
		}
		return Summary{MessageID: messageID, Status: m.Status}, nil
	}

	m, err := o.store.GetMessage(ctx, messageID)
	if err != nil {
		return Summary{}, err
	}

	// Step 2: validate targets against the supported set.
	targets := o.filterSupported(targetLanguages, m.SourceLanguage)
	if len(targets) == 0 {
		if _, err := o.store.CompareAndTransition(ctx, messageID, domain.StatusTranslating, domain.StatusTranslated); err != nil {
			return Summary{}, err
		}
		o.publishSettled(ctx, m, domain.StatusTranslated, 0, 0)
		return Summary{MessageID: messageID, Status: domain.StatusTranslated}, nil
	}

	// Step 3: parse once.
	masked := o.parser.Mask(m.Content)

	// Message whose text, after masking, is empty (entirely code) gets no
	// translations and settles translated immediately.
	if isBlankAfterMasking(masked.Text) {
		if _, err := o.store.CompareAndTransition(ctx, messageID, domain.StatusTranslating, domain.StatusTranslated); err != nil {
			return Summary{}, err
		}
		o.publishSettled(ctx, m, domain.StatusTranslated, 0, 0)
		return Summary{MessageID: messageID, Status: domain.StatusTranslated}, nil
	}

	// Step 4: resolve the glossary. The scope key is the message's channel
	// id; the Message carries no community id, so community-scoped entries
	// are not looked up by community.
	protector := o.glossaries.ProtectorFor(m.ChannelID)

	// Step 5: fan out per target with bounded concurrency.
	outcomes := o.fanOut(ctx, m, masked, protector, targets)

	// Step 6: settle status.
	anySucceeded := false
	for _, oc := range outcomes {
		if oc.Succeeded {
			anySucceeded = true
			break
		}
	}
	finalStatus := domain.StatusFailed
	succeededCount := 0
	for _, oc := range outcomes {
		if oc.Succeeded {
			succeededCount++
		}
	}
	if anySucceeded {
		finalStatus = domain.StatusTranslated
	}
	if _, err := o.store.CompareAndTransition(ctx, messageID, domain.StatusTranslating, finalStatus); err != nil {
		return Summary{}, err
	}
	o.publishSettled(ctx, m, finalStatus, len(targets), succeededCount)

	return Summary{MessageID: messageID, Status: finalStatus, Outcomes: outcomes}, nil
}

// publishSettled notifies the configured SettlementPublisher, if any, once
// a message reaches a terminal status. Never propagates a publish error:
// this is advisory plumbing downstream of a status change already
// committed to the Message Store.
func (o *Orchestrator) publishSettled(ctx context.Context, m *domain.Message, status domain.Status, targetCount, succeededCount int) {
	metrics.MessagesTranslated.WithLabelValues(string(status)).Inc()
	if o.publisher == nil {
		return
	}
	o.publisher.PublishSettled(ctx, m.ID, m.ChannelID, status, targetCount, succeededCount)
}

func (o *Orchestrator) filterSupported(targets []string, sourceLanguage string) []string {
	var out []string
	for _, t := range targets {
		if t == sourceLanguage {
			continue
		}
		if len(o.supported) > 0 && !o.supported[t] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isBlankAfterMasking(maskedText string) bool {
	for _, r := range maskedText {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '⟪':
			return true // reached a placeholder token with no preceding prose
		default:
			return false
		}
	}
	return true
}

func (o *Orchestrator) fanOut(ctx context.Context, m *domain.Message, masked parser.Masked, protector *glossary.Protector, targets []string) []TargetOutcome {
	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	outcomes := make([]TargetOutcome, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = o.translateOneTarget(ctx, m, masked, protector, target)
		}(i, target)
	}
	wg.Wait()
	return outcomes
}

func (o *Orchestrator) translateOneTarget(ctx context.Context, m *domain.Message, masked parser.Masked, protector *glossary.Protector, target string) TargetOutcome {
	cacheKey := cache.Key(m.Content, target)
	start := time.Now()
	defer func() { metrics.CacheHitRate.Set(o.cache.Stats().HitRate) }()

	if cached, ok := o.cache.Get(cacheKey); ok {
		_ = o.store.AppendTranslation(ctx, m.ID, domain.Translation{
			TargetLanguage:    target,
			TranslatedContent: cached,
			CreatedAt:         time.Now().UTC(),
			FromCache:         true,
		})
		metrics.TranslationLatency.WithLabelValues(target, "cache_hit").Observe(time.Since(start).Seconds())
		return TargetOutcome{TargetLanguage: target, Succeeded: true, FromCache: true}
	}

	if o.cacheMirror != nil {
		if cached, ok := o.cacheMirror.Get(ctx, cacheKey); ok {
			o.cache.Set(cacheKey, cached)
			_ = o.store.AppendTranslation(ctx, m.ID, domain.Translation{
				TargetLanguage:    target,
				TranslatedContent: cached,
				CreatedAt:         time.Now().UTC(),
				FromCache:         true,
			})
			metrics.TranslationLatency.WithLabelValues(target, "cache_hit").Observe(time.Since(start).Seconds())
			return TargetOutcome{TargetLanguage: target, Succeeded: true, FromCache: true}
		}
	}

	protected := protector.Protect(masked.Text)

	rawOut, err := o.translator.Translate(ctx, protected.Text, m.SourceLanguage, target)
	if err != nil {
		metrics.TranslationLatency.WithLabelValues(target, "failed").Observe(time.Since(start).Seconds())
		metrics.OrchestratorFailures.WithLabelValues(target).Inc()
		if o.logger != nil {
			o.logger.Warnw("translation failed for target", "messageId", m.ID, "target", target, "error", err)
		}
		return TargetOutcome{TargetLanguage: target, Succeeded: false, Err: err}
	}

	postGloss := glossary.Restore(rawOut, protected.Matches)
	final := parser.Unmask(postGloss, masked.Segments)

	o.cache.Set(cacheKey, final)
	if o.cacheMirror != nil {
		o.cacheMirror.Set(ctx, cacheKey, final)
	}
	metrics.TranslationLatency.WithLabelValues(target, "translated").Observe(time.Since(start).Seconds())

	if err := o.store.AppendTranslation(ctx, m.ID, domain.Translation{
		TargetLanguage:    target,
		TranslatedContent: final,
		CreatedAt:         time.Now().UTC(),
	}); err != nil {
		if o.logger != nil {
			o.logger.Warnw("failed to append translation", "messageId", m.ID, "target", target, "error", err)
		}
		return TargetOutcome{TargetLanguage: target, Succeeded: false, Err: err}
	}

	return TargetOutcome{TargetLanguage: target, Succeeded: true}
}
