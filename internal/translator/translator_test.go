package translator

import (
	"context"
	"testing"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTranslateSameLanguageReturnsVerbatim(t *testing.T) {
	a := New(Config{Mode: ModeOffline}, nil)
	out, err := a.Translate(context.Background(), "hello there", "en", "en")
	require.NoError(t, err)
	require.Equal(t, "hello there", out)
}

func TestTranslateWhitespaceOnlyReturnsVerbatim(t *testing.T) {
	a := New(Config{Mode: ModeOffline}, nil)
	out, err := a.Translate(context.Background(), "   ", "en", "fr")
	require.NoError(t, err)
	require.Equal(t, "   ", out)
}

func TestOfflinePhraseTableMatch(t *testing.T) {
	a := New(Config{Mode: ModeOffline}, nil)
	out, err := a.Translate(context.Background(), "hello", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "hola", out)
}

func TestOfflineNoMatchReturnsTaggedOriginal(t *testing.T) {
	a := New(Config{Mode: ModeOffline}, nil)
	out, err := a.Translate(context.Background(), "a very unusual sentence", "en", "fr")
	require.NoError(t, err)
	require.Equal(t, "[fr] a very unusual sentence", out)
}

func TestOnlineNoEndpointSurfacesTranslationFailed(t *testing.T) {
	a := New(Config{Mode: ModeOnline, MaxRetries: 1}, nil)
	_, err := a.Translate(context.Background(), "hello", "en", "fr")
	require.Error(t, err)
	var tf *domain.TranslationFailedError
	require.ErrorAs(t, err, &tf)
	require.Equal(t, "fr", tf.TargetLanguage)
}

func TestOnlineDegradedFallsBackToPhraseTable(t *testing.T) {
	a := New(Config{Mode: ModeOnline, MaxRetries: 1, AllowDegraded: true}, nil)
	out, err := a.Translate(context.Background(), "hello", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "hola", out)
}
