package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidroom/server/internal/repository/room"
)

func TestMemberCountTracksJoinsAndLeaves(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo()

	require.NoError(t, repo.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:   "abc123",
		HostId:   "host",
		Username: "alice",
	}))

	members, err := repo.AddMember(ctx, &room.AddMemberParams{RoomId: "abc123", MemberId: "m2", Username: "bob"})
	require.NoError(t, err)
	assert.Len(t, members, 2)

	members, err = repo.AddMember(ctx, &room.AddMemberParams{RoomId: "abc123", MemberId: "m3", Username: "carol"})
	require.NoError(t, err)
	assert.Len(t, members, 3)

	// join order preserved, no duplicates
	assert.Equal(t, []string{"host", "m2", "m3"}, memberIds(members))

	members, deleted, err := repo.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "abc123", MemberId: "m2"})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, []string{"host", "m3"}, memberIds(members))

	// removing an unknown member is reported, count unchanged
	_, _, err = repo.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "abc123", MemberId: "m2"})
	assert.ErrorIs(t, err, room.ErrMemberNotFound)

	got, err := repo.GetMembers(ctx, "abc123")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDuplicateMemberRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo()

	require.NoError(t, repo.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r", HostId: "host", Username: "alice"}))

	_, err := repo.AddMember(ctx, &room.AddMemberParams{RoomId: "r", MemberId: "host", Username: "alice"})
	assert.ErrorIs(t, err, room.ErrMemberAlreadyExists)
}

func TestLastMemberLeavingDeletesRoom(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo()

	require.NoError(t, repo.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r", HostId: "host", Username: "alice"}))

	_, deleted, err := repo.RemoveMember(ctx, &room.RemoveMemberParams{RoomId: "r", MemberId: "host"})
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetRoom(ctx, "r")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	_, err = repo.AddMember(ctx, &room.AddMemberParams{RoomId: "r", MemberId: "m2", Username: "bob"})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	assert.Empty(t, repo.GetRoomIds(ctx))
}

func TestSetVideoResetsToPaused(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo()

	require.NoError(t, repo.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r", HostId: "host", Username: "alice"}))

	playing := true
	_, err := repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{RoomId: "r", CurrentTime: 3, IsPlaying: &playing})
	require.NoError(t, err)

	player, err := repo.SetVideo(ctx, &room.SetVideoParams{RoomId: "r", VideoURL: "http://v/1.mp4", CurrentTime: 12.5})
	require.NoError(t, err)
	assert.Equal(t, 12.5, player.CurrentTime)
	assert.False(t, player.IsPlaying)

	got, err := repo.GetRoom(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, player, got.Player)
}

func TestSeekLeavesPlayStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo()

	require.NoError(t, repo.CreateRoom(ctx, &room.CreateRoomParams{RoomId: "r", HostId: "host", Username: "alice"}))

	playing := true
	_, err := repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{RoomId: "r", CurrentTime: 1, IsPlaying: &playing})
	require.NoError(t, err)

	player, err := repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{RoomId: "r", CurrentTime: 42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, player.CurrentTime)
	assert.True(t, player.IsPlaying, "seek must not change play state")

	paused := false
	player, err = repo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{RoomId: "r", CurrentTime: 43, IsPlaying: &paused})
	require.NoError(t, err)
	assert.False(t, player.IsPlaying)
	assert.Equal(t, 43.0, player.CurrentTime)
}

func memberIds(members []room.Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.Id)
	}
	return ids
}
