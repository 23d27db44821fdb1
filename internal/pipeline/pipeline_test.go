package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/lingua-relay/internal/cache"
	"github.com/fathima-sithara/lingua-relay/internal/detect"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/fathima-sithara/lingua-relay/internal/glossary"
	"github.com/fathima-sithara/lingua-relay/internal/parser"
	"github.com/fathima-sithara/lingua-relay/internal/store"
)

// stubTranslator returns "<target>:<text>" without calling a provider.
type stubTranslator struct {
	mu    sync.Mutex
	calls int
	fail  map[string]bool
}

func (s *stubTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.fail[targetLang] {
		return "", domain.NewTranslationFailed(targetLang, context.DeadlineExceeded)
	}
	return targetLang + ":" + text, nil
}

type fixedGlossaryProvider struct {
	p *glossary.Protector
}

func (f fixedGlossaryProvider) ProtectorFor(scope string) *glossary.Protector { return f.p }

func newHarness(t *testing.T, fail map[string]bool) (*Orchestrator, *store.Store, *stubTranslator) {
	t.Helper()
	d := detect.New(detect.Config{})
	s := store.New(d)
	p := parser.New(parser.Config{})
	c := cache.New(cache.Config{})
	tr := &stubTranslator{fail: fail}
	gp := fixedGlossaryProvider{p: glossary.New(domain.DefaultGlossaryScope, nil)}

	orch := New(s, p, d, c, tr, gp, []string{"en", "es", "fr"}, Config{}, nil, nil, nil)
	return orch, s, tr
}

func TestTranslateMessageFansOutToAllTargets(t *testing.T) {
	orch, s, _ := newHarness(t, nil)
	ctx := context.Background()

	m, err := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")
	require.NoError(t, err)

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"es", "fr"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTranslated, summary.Status)
	require.Len(t, summary.Outcomes, 2)

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, got.Translations, 2)
	es, ok := got.TranslationFor("es")
	require.True(t, ok)
	require.Equal(t, "es:hello there friend", es.TranslatedContent)
}

func TestTranslateMessageExcludesSourceLanguageTarget(t *testing.T) {
	orch, s, _ := newHarness(t, nil)
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"en", "es"})
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 1)
	require.Equal(t, "es", summary.Outcomes[0].TargetLanguage)
}

func TestTranslateMessageIsIdempotentOnSecondCall(t *testing.T) {
	orch, s, tr := newHarness(t, nil)
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")

	_, err := orch.TranslateMessage(ctx, m.ID, []string{"es"})
	require.NoError(t, err)
	callsAfterFirst := tr.calls

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"es"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTranslated, summary.Status)
	require.Equal(t, callsAfterFirst, tr.calls, "second call on an already-translated message must not re-invoke the translator")
}

func TestTranslateMessagePartialFailureStillSettlesTranslated(t *testing.T) {
	orch, s, _ := newHarness(t, map[string]bool{"fr": true})
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"es", "fr"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTranslated, summary.Status)

	got, _ := s.GetMessage(ctx, "m1")
	require.Len(t, got.Translations, 1)
	require.Equal(t, "es", got.Translations[0].TargetLanguage)
}

func TestTranslateMessageAllTargetsFailSettlesFailed(t *testing.T) {
	orch, s, _ := newHarness(t, map[string]bool{"es": true, "fr": true})
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"es", "fr"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, summary.Status)
}

func TestTranslateMessageUsesCacheOnSecondMessageWithSameContent(t *testing.T) {
	orch, s, tr := newHarness(t, nil)
	ctx := context.Background()

	m1, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")
	_, err := orch.TranslateMessage(ctx, m1.ID, []string{"es"})
	require.NoError(t, err)
	callsAfterFirst := tr.calls

	m2, _ := s.CreateMessage(ctx, "m2", "c1", "hello there friend", "u1", "en")
	summary, err := orch.TranslateMessage(ctx, m2.ID, []string{"es"})
	require.NoError(t, err)
	require.True(t, summary.Outcomes[0].FromCache)
	require.Equal(t, callsAfterFirst, tr.calls, "cached target must not call the translator again")
}

func TestTranslateMessageConcurrentInvocationsCollapse(t *testing.T) {
	orch, s, tr := newHarness(t, nil)
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "hello there friend", "u1", "en")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orch.TranslateMessage(ctx, m.ID, []string{"es", "fr"})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 2, tr.calls, "concurrent invocations for the same message must collapse into one translation run")

	got, _ := s.GetMessage(ctx, m.ID)
	require.Len(t, got.Translations, 2)
}

func TestTranslateMessageGlossaryTermSurvivesRoundTrip(t *testing.T) {
	orch, s, _ := newHarness(t, nil)
	ctx := context.Background()
	m, _ := s.CreateMessage(ctx, "m1", "c1", "please check the API docs today friend", "u1", "en")

	summary, err := orch.TranslateMessage(ctx, m.ID, []string{"es"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTranslated, summary.Status)

	got, _ := s.GetMessage(ctx, "m1")
	es, ok := got.TranslationFor("es")
	require.True(t, ok)
	require.Contains(t, es.TranslatedContent, "API")
}
