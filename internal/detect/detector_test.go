package detect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectShortTextDefaultsToEnglish(t *testing.T) {
	d := New(Config{})
	r := d.Detect("hi")
	require.Equal(t, LangEN, r.Language)
	require.False(t, r.IsRomanized)
	require.InDelta(t, 0.3, r.Confidence, 0.0001)
}

func TestDetectEnglishProse(t *testing.T) {
	d := New(Config{})
	r := d.Detect("Hello world, this is a test message with some words")
	require.Equal(t, LangEN, r.Language)
}

func TestDetectRomanizedHindi(t *testing.T) {
	d := New(Config{})
	r := d.Detect("muje aapki help chahiye")
	require.Equal(t, LangHI, r.Language)
	require.True(t, r.IsRomanized)
	require.GreaterOrEqual(t, r.Confidence, 0.6)
}

func TestDetectCyrillicScript(t *testing.T) {
	d := New(Config{})
	r := d.Detect("Привет, это тестовое сообщение на русском языке")
	require.Equal(t, LangRU, r.Language)
}

func TestDetectDegradesUnsupportedLanguage(t *testing.T) {
	d := New(Config{Supported: []LangCode{LangEN}})
	r := d.Detect("Привет, это тестовое сообщение на русском языке")
	require.Equal(t, LangEN, r.Language)
}

func TestIsUncertain(t *testing.T) {
	d := New(Config{})
	require.True(t, d.IsUncertain("hi"))
}

func TestDetectMixedWeightsByLength(t *testing.T) {
	d := New(Config{})
	r := d.DetectMixed("Hi. Привет это длинное тестовое сообщение написанное полностью на русском языке для проверки веса")
	require.NotEmpty(t, r.Segments)
	require.Equal(t, LangRU, r.Primary)
}
