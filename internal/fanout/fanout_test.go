package fanout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveExcludesSourceLanguage(t *testing.T) {
	members := []MemberSnapshot{
		{UserID: "u1", PrimaryLanguage: "en"},
		{UserID: "u2", PrimaryLanguage: "es"},
		{UserID: "u3", PrimaryLanguage: "fr"},
	}
	targets := Resolve(members, "en")
	require.ElementsMatch(t, []string{"es", "fr"}, targets)
}

func TestResolveDeduplicatesTargets(t *testing.T) {
	members := []MemberSnapshot{
		{UserID: "u1", PrimaryLanguage: "es"},
		{UserID: "u2", PrimaryLanguage: "es"},
		{UserID: "u3", PrimaryLanguage: "fr"},
	}
	targets := Resolve(members, "en")
	require.ElementsMatch(t, []string{"es", "fr"}, targets)
}

func TestResolveIgnoresEmptyPreference(t *testing.T) {
	members := []MemberSnapshot{
		{UserID: "u1", PrimaryLanguage: ""},
		{UserID: "u2", PrimaryLanguage: "es"},
	}
	targets := Resolve(members, "en")
	require.Equal(t, []string{"es"}, targets)
}
