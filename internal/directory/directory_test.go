package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	d := New()
	ctx := context.Background()

	_, err := d.CreateUser(ctx, "a@example.com", "hash", "alice", "en")
	require.NoError(t, err)

	_, err = d.CreateUser(ctx, "A@Example.com", "hash2", "alice2", "en")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateCommunityCreatesDefaultGeneralChannel(t *testing.T) {
	d := New()
	ctx := context.Background()
	u, _ := d.CreateUser(ctx, "a@example.com", "hash", "alice", "en")

	community, channel, err := d.CreateCommunity(ctx, "My Club", "desc", u.ID)
	require.NoError(t, err)
	require.Equal(t, "general", channel.Name)
	require.True(t, community.Members[u.ID])

	communities, channels := d.CommunitiesForMember(ctx, u.ID)
	require.Len(t, communities, 1)
	require.Len(t, channels, 1)
}

func TestCreateChannelSlugifiesName(t *testing.T) {
	d := New()
	ctx := context.Background()
	u, _ := d.CreateUser(ctx, "a@example.com", "hash", "alice", "en")
	community, _, _ := d.CreateCommunity(ctx, "Club", "", u.ID)

	ch, err := d.CreateChannel(ctx, community.ID, "Random Talk", "")
	require.NoError(t, err)
	require.Equal(t, "random-talk", ch.Name)
}

func TestGetOrCreateThreadIsIdempotentRegardlessOfOrder(t *testing.T) {
	d := New()
	ctx := context.Background()

	t1, err := d.GetOrCreateThread(ctx, "u1", "u2")
	require.NoError(t, err)

	t2, err := d.GetOrCreateThread(ctx, "u2", "u1")
	require.NoError(t, err)

	require.Equal(t, t1.ID, t2.ID)
}

func TestJoinCommunityIsIdempotent(t *testing.T) {
	d := New()
	ctx := context.Background()
	u, _ := d.CreateUser(ctx, "a@example.com", "hash", "alice", "en")
	v, _ := d.CreateUser(ctx, "b@example.com", "hash", "bob", "es")
	community, _, _ := d.CreateCommunity(ctx, "Club", "", u.ID)

	require.NoError(t, d.JoinCommunity(ctx, community.ID, v.ID))
	require.NoError(t, d.JoinCommunity(ctx, community.ID, v.ID))
	require.True(t, d.IsMember(ctx, community.ID, v.ID))

	profiles := d.CommunityMemberProfiles(ctx, community.ID)
	require.Len(t, profiles, 2)
}
