package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskUnmaskRoundTripNoProtectedSpans(t *testing.T) {
	p := New(Config{})
	text := "hello there, how are you today"
	masked := p.Mask(text)
	require.Equal(t, text, masked.Text)
	require.Equal(t, text, Unmask(masked.Text, masked.Segments))
}

func TestMaskUnmaskRoundTripWithCodeAndFence(t *testing.T) {
	p := New(Config{})
	text := "Use `console.log()` like this:\n```js\nconsole.log(\"hello\")\n```"
	masked := p.Mask(text)

	require.Contains(t, masked.Text, "⟪P0⟫")
	require.Contains(t, masked.Text, "⟪P1⟫")
	require.NotContains(t, masked.Text, "console.log")

	restored := Unmask(masked.Text, masked.Segments)
	require.Equal(t, text, restored)
}

func TestMaskPreservesURLMentionHashtag(t *testing.T) {
	p := New(Config{})
	text := "check https://example.com/a?b=c cc @bob about #golang"
	masked := p.Mask(text)
	restored := Unmask(masked.Text, masked.Segments)
	require.Equal(t, text, restored)

	var kinds []SegmentKind
	for _, s := range masked.Segments {
		if s.Kind != KindText {
			kinds = append(kinds, s.Kind)
		}
	}
	require.Equal(t, []SegmentKind{KindURL, KindMention, KindHashtag}, kinds)
}

func TestValidateRejectsForbiddenPatterns(t *testing.T) {
	p := New(Config{})
	errs := p.Validate(`hi <script>alert(1)</script>`)
	require.NotEmpty(t, errs)

	errs = p.Validate(`click javascript:doEvil()`)
	require.NotEmpty(t, errs)
}

func TestValidateRejectsOverlongContent(t *testing.T) {
	p := New(Config{MaxContentLength: 5})
	errs := p.Validate("123456")
	require.NotEmpty(t, errs)

	errs = p.Validate("12345")
	require.Empty(t, errs)
}

func TestTokenSurvivesIdentityTranslation(t *testing.T) {
	p := New(Config{})
	text := "See `x()` now"
	masked := p.Mask(text)

	// Simulate an identity translator that just echoes the masked text back.
	identity := masked.Text
	restored := Unmask(identity, masked.Segments)
	require.Equal(t, text, restored)
}
