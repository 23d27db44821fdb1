package store

import (
	"context"
	"sync"
	"testing"

	"github.com/fathima-sithara/lingua-relay/internal/detect"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return New(detect.New(detect.Config{}))
}

func TestCreateMessageDetectsLanguageWhenUnset(t *testing.T) {
	s := newTestStore()
	m, err := s.CreateMessage(context.Background(), "m1", "c1", "Hello world, this is a test", "u1", "")
	require.NoError(t, err)
	require.Equal(t, "en", m.SourceLanguage)
	require.Equal(t, domain.StatusSent, m.Status)
	require.Empty(t, m.Translations)
}

func TestStatusStateMachineRejectsIllegalTransitions(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")

	err := s.UpdateStatus(context.Background(), "m1", domain.StatusTranslated)
	require.Error(t, err)

	require.NoError(t, s.UpdateStatus(context.Background(), "m1", domain.StatusTranslating))
	require.NoError(t, s.UpdateStatus(context.Background(), "m1", domain.StatusTranslated))

	err = s.UpdateStatus(context.Background(), "m1", domain.StatusFailed)
	require.Error(t, err)
}

func TestCompareAndTransitionCollapsesConcurrentCallers(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")

	var wg sync.WaitGroup
	wins := make([]bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.CompareAndTransition(context.Background(), "m1", domain.StatusSent, domain.StatusTranslating)
			require.NoError(t, err)
			wins[i] = ok
		}(i)
	}
	wg.Wait()

	count := 0
	for _, w := range wins {
		if w {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestAppendTranslationIdempotentOnDuplicateTarget(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")

	require.NoError(t, s.AppendTranslation(context.Background(), "m1", domain.Translation{TargetLanguage: "es", TranslatedContent: "hola"}))
	require.NoError(t, s.AppendTranslation(context.Background(), "m1", domain.Translation{TargetLanguage: "es", TranslatedContent: "DIFFERENT"}))

	m, err := s.GetMessage(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, m.Translations, 1)
	require.Equal(t, "hola", m.Translations[0].TranslatedContent)
}

func TestGetChannelMessagesFiltersTranslationsForViewer(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "sender", "en")
	require.NoError(t, s.AppendTranslation(context.Background(), "m1", domain.Translation{TargetLanguage: "es", TranslatedContent: "hola"}))
	require.NoError(t, s.AppendTranslation(context.Background(), "m1", domain.Translation{TargetLanguage: "fr", TranslatedContent: "salut"}))

	viewerMsgs, err := s.GetChannelMessages(context.Background(), "c1", 10, "viewer", "es")
	require.NoError(t, err)
	require.Len(t, viewerMsgs, 1)
	require.Len(t, viewerMsgs[0].Translations, 1)
	require.Equal(t, "es", viewerMsgs[0].Translations[0].TargetLanguage)

	senderMsgs, err := s.GetChannelMessages(context.Background(), "c1", 10, "sender", "es")
	require.NoError(t, err)
	require.Len(t, senderMsgs[0].Translations, 2)
}

func TestGetChannelMessagesOrderedAndLimited(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 5; i++ {
		_, _ = s.CreateMessage(context.Background(), string(rune('a'+i)), "c1", "hi", "u1", "en")
	}
	msgs, err := s.GetChannelMessages(context.Background(), "c1", 3, "u1", "en")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		require.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
	}
}

func TestSetReactionAddReplaceToggleOff(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")

	action, err := s.SetReaction(context.Background(), "m1", "u2", "👍")
	require.NoError(t, err)
	require.Equal(t, "added", action)

	action, err = s.SetReaction(context.Background(), "m1", "u2", "❤️")
	require.NoError(t, err)
	require.Equal(t, "replaced", action)

	action, err = s.SetReaction(context.Background(), "m1", "u2", "❤️")
	require.NoError(t, err)
	require.Equal(t, "removed", action)

	m, _ := s.GetMessage(context.Background(), "m1")
	require.Empty(t, m.Reactions)
}

func TestAtMostOneReactionPerUser(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")
	_, _ = s.SetReaction(context.Background(), "m1", "u2", "👍")
	_, _ = s.SetReaction(context.Background(), "m1", "u3", "👍")

	m, _ := s.GetMessage(context.Background(), "m1")
	require.Len(t, m.Reactions, 2)
}

func TestDeleteChannelMessages(t *testing.T) {
	s := newTestStore()
	_, _ = s.CreateMessage(context.Background(), "m1", "c1", "hi", "u1", "en")
	_, _ = s.CreateMessage(context.Background(), "m2", "c1", "hi", "u1", "en")

	count, err := s.DeleteChannelMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	msgs, _ := s.GetChannelMessages(context.Background(), "c1", 10, "u1", "en")
	require.Empty(t, msgs)
}
