package room

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidroom/server/internal/repository/connection"
	connInmemory "github.com/vidroom/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/vidroom/server/internal/repository/room/inmemory"
)

func newTestService() *service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(roomInmemory.NewRepo(), connInmemory.NewRepo(), logger)
}

func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	// create room
	createRoomResp, err := service.CreateRoom(ctx, &CreateRoomParams{Username: "alice"})
	require.NoError(t, err)
	assert.Len(t, createRoomResp.RoomId, 6)
	assert.NotEmpty(t, createRoomResp.MemberId)
	assert.Equal(t, createRoomResp.MemberId, createRoomResp.Room.HostId, "creator must be recorded as host")
	require.Len(t, createRoomResp.Room.Members, 1)

	aliceConn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: aliceConn, MemberId: createRoomResp.MemberId}))

	// join room
	joinRoomResp, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: createRoomResp.RoomId, Username: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, joinRoomResp.JoinedMember.Id)
	assert.Equal(t, "bob", joinRoomResp.JoinedMember.Username)
	require.Len(t, joinRoomResp.MemberList, 2)
	assert.Equal(t, createRoomResp.MemberId, joinRoomResp.MemberList[0].Id, "member list must keep join order")
	assert.Equal(t, joinRoomResp.JoinedMember.Id, joinRoomResp.MemberList[1].Id)
	require.Len(t, joinRoomResp.Conns, 1, "only previously connected members receive the join broadcast")
	assert.Same(t, aliceConn, joinRoomResp.Conns[0])

	bobConn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: bobConn, MemberId: joinRoomResp.JoinedMember.Id}))

	// disconnect bob, then alice
	disconnectResp, err := service.Disconnect(ctx, &DisconnectParams{MemberId: joinRoomResp.JoinedMember.Id, RoomId: createRoomResp.RoomId})
	require.NoError(t, err)
	assert.False(t, disconnectResp.IsRoomDeleted)
	require.Len(t, disconnectResp.Members, 1)
	assert.Equal(t, createRoomResp.MemberId, disconnectResp.Members[0].Id)

	disconnectResp, err = service.Disconnect(ctx, &DisconnectParams{MemberId: createRoomResp.MemberId, RoomId: createRoomResp.RoomId})
	require.NoError(t, err)
	assert.True(t, disconnectResp.IsRoomDeleted, "last member leaving must delete the room")

	// the id is gone, a late join fails with not found
	_, err = service.JoinRoom(ctx, &JoinRoomParams{RoomId: createRoomResp.RoomId, Username: "carol"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinUnknownRoom(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: "zzzzzz", Username: "bob"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLoadVideo(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	createRoomResp, err := service.CreateRoom(ctx, &CreateRoomParams{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: connection.NewConn(&websocket.Conn{}), MemberId: createRoomResp.MemberId}))

	loadVideoResp, err := service.LoadVideo(ctx, &LoadVideoParams{
		SenderId:    createRoomResp.MemberId,
		RoomId:      createRoomResp.RoomId,
		VideoURL:    "http://videos/movie.mp4",
		CurrentTime: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, loadVideoResp.Player.CurrentTime)
	assert.False(t, loadVideoResp.Player.IsPlaying, "a freshly loaded video starts paused")
	assert.Len(t, loadVideoResp.Conns, 1, "load is broadcast to all members including the sender")

	// a late joiner's snapshot carries the loaded state
	joinRoomResp, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: createRoomResp.RoomId, Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "http://videos/movie.mp4", joinRoomResp.Room.Player.VideoURL)
	assert.Equal(t, 12.5, joinRoomResp.Room.Player.CurrentTime)
	assert.False(t, joinRoomResp.Room.Player.IsPlaying)

	// negative offsets clamp to zero
	loadVideoResp, err = service.LoadVideo(ctx, &LoadVideoParams{
		SenderId:    createRoomResp.MemberId,
		RoomId:      createRoomResp.RoomId,
		VideoURL:    "http://videos/other.mp4",
		CurrentTime: -3,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, loadVideoResp.Player.CurrentTime)

	// non-members are dropped
	_, err = service.LoadVideo(ctx, &LoadVideoParams{
		SenderId: "stranger",
		RoomId:   createRoomResp.RoomId,
		VideoURL: "http://videos/x.mp4",
	})
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestVideoAction(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	createRoomResp, err := service.CreateRoom(ctx, &CreateRoomParams{Username: "alice"})
	require.NoError(t, err)
	aliceConn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: aliceConn, MemberId: createRoomResp.MemberId}))

	joinRoomResp, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: createRoomResp.RoomId, Username: "bob"})
	require.NoError(t, err)
	bobConn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: bobConn, MemberId: joinRoomResp.JoinedMember.Id}))

	// play then pause: last writer wins
	_, err = service.VideoAction(ctx, &VideoActionParams{
		SenderId:    createRoomResp.MemberId,
		RoomId:      createRoomResp.RoomId,
		Action:      ActionPlay,
		CurrentTime: 10,
	})
	require.NoError(t, err)

	videoActionResp, err := service.VideoAction(ctx, &VideoActionParams{
		SenderId:    joinRoomResp.JoinedMember.Id,
		RoomId:      createRoomResp.RoomId,
		Action:      ActionPause,
		CurrentTime: 11,
	})
	require.NoError(t, err)
	require.Len(t, videoActionResp.Conns, 1, "the sender is excluded from the action broadcast")
	assert.Same(t, aliceConn, videoActionResp.Conns[0])

	roomState, err := service.GetRoomState(ctx, createRoomResp.RoomId)
	require.NoError(t, err)
	assert.False(t, roomState.Player.IsPlaying)
	assert.Equal(t, 11.0, roomState.Player.CurrentTime)

	// seek changes the offset only
	_, err = service.VideoAction(ctx, &VideoActionParams{
		SenderId:    createRoomResp.MemberId,
		RoomId:      createRoomResp.RoomId,
		Action:      ActionPlay,
		CurrentTime: 11,
	})
	require.NoError(t, err)

	_, err = service.VideoAction(ctx, &VideoActionParams{
		SenderId:    createRoomResp.MemberId,
		RoomId:      createRoomResp.RoomId,
		Action:      ActionSeek,
		CurrentTime: 42,
	})
	require.NoError(t, err)

	roomState, err = service.GetRoomState(ctx, createRoomResp.RoomId)
	require.NoError(t, err)
	assert.True(t, roomState.Player.IsPlaying, "seek must not change play state")
	assert.Equal(t, 42.0, roomState.Player.CurrentTime)
}

func TestSendChat(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	createRoomResp, err := service.CreateRoom(ctx, &CreateRoomParams{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: connection.NewConn(&websocket.Conn{}), MemberId: createRoomResp.MemberId}))

	joinRoomResp, err := service.JoinRoom(ctx, &JoinRoomParams{RoomId: createRoomResp.RoomId, Username: "bob"})
	require.NoError(t, err)
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: connection.NewConn(&websocket.Conn{}), MemberId: joinRoomResp.JoinedMember.Id}))

	sendChatResp, err := service.SendChat(ctx, &SendChatParams{
		SenderId: joinRoomResp.JoinedMember.Id,
		RoomId:   createRoomResp.RoomId,
		Text:     "hello, room!",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", sendChatResp.Message.Username)
	assert.Equal(t, "hello, room!", sendChatResp.Message.Text)
	assert.NotEmpty(t, sendChatResp.Message.Timestamp)
	assert.Len(t, sendChatResp.Conns, 2, "chat goes to every member including the sender")

	_, err = service.SendChat(ctx, &SendChatParams{
		SenderId: "stranger",
		RoomId:   createRoomResp.RoomId,
		Text:     "hi",
	})
	assert.ErrorIs(t, err, ErrNotInRoom)
}

func TestForwardSignal(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	createRoomResp, err := service.CreateRoom(ctx, &CreateRoomParams{Username: "alice"})
	require.NoError(t, err)
	aliceConn := connection.NewConn(&websocket.Conn{})
	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: aliceConn, MemberId: createRoomResp.MemberId}))

	forwardSignalResp, err := service.ForwardSignal(ctx, &ForwardSignalParams{
		SenderId: "bob-conn",
		TargetId: createRoomResp.MemberId,
		Payload:  []byte(`{"sdp":"opaque"}`),
	})
	require.NoError(t, err)
	assert.Same(t, aliceConn, forwardSignalResp.Conn, "signal must resolve to exactly the target connection")

	_, err = service.ForwardSignal(ctx, &ForwardSignalParams{
		SenderId: "bob-conn",
		TargetId: "gone",
		Payload:  []byte(`{}`),
	})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
