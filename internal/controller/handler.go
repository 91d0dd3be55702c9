package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/service/room"
	"github.com/vidroom/server/pkg/rest"
)

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	user, err := c.getUser(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	createRoomResp, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Username: user.username,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}
	defer c.disconnect(r.Context(), createRoomResp.MemberId, createRoomResp.RoomId)

	wsConn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	conn := connection.NewConn(wsConn)
	defer conn.Close()

	c.roomLocks.Lock(createRoomResp.RoomId)
	err = c.roomService.ConnectMember(r.Context(), &room.ConnectMemberParams{
		Conn:     conn,
		MemberId: createRoomResp.MemberId,
	})
	if err == nil {
		// the snapshot is taken under the room lock so a racing join is either
		// fully in the ack or fully announced afterwards
		roomState, stateErr := c.roomService.GetRoomState(r.Context(), createRoomResp.RoomId)
		if stateErr == nil {
			createRoomResp.Room = roomState
		}
		err = c.writeToConn(r.Context(), conn, &Output{
			Type: "ROOM_CREATED",
			Payload: map[string]any{
				"room":      createRoomResp.Room,
				"member_id": createRoomResp.MemberId,
			},
		})
	}
	c.roomLocks.Unlock(createRoomResp.RoomId)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to start session", "error", err)
		return
	}

	c.serveSession(r.Context(), conn, createRoomResp.RoomId, createRoomResp.MemberId)
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	user, err := c.getUser(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if _, err := c.roomService.GetRoomState(r.Context(), roomId); err != nil {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	wsConn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	conn := connection.NewConn(wsConn)
	defer conn.Close()

	memberId, ok := c.performJoin(r.Context(), conn, roomId, user.username)
	if !ok {
		return
	}
	defer c.disconnect(r.Context(), memberId, roomId)

	c.serveSession(r.Context(), conn, roomId, memberId)
}

// performJoin runs the join sequence under the room lock: register the
// member, attach the connection, ack the joiner and announce the new
// presence to everyone already there.
func (c controller) performJoin(ctx context.Context, conn *connection.Conn, roomId, username string) (string, bool) {
	c.roomLocks.Lock(roomId)
	defer c.roomLocks.Unlock(roomId)

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:   roomId,
		Username: username,
	})
	if err != nil {
		// the room can vanish between the pre-upgrade check and the join
		c.logger.DebugContext(ctx, "failed to join room", "room_id", roomId, "error", err)
		c.writeToConn(ctx, conn, &Output{
			Type:    "ERROR",
			Payload: map[string]string{"message": "room not found"},
		})
		return "", false
	}

	memberId := joinRoomResp.JoinedMember.Id
	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		Conn:     conn,
		MemberId: memberId,
	}); err != nil {
		c.logger.ErrorContext(ctx, "failed to connect member", "error", err)
		return memberId, false
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "ROOM_JOINED",
		Payload: map[string]any{
			"room":      joinRoomResp.Room,
			"member_id": memberId,
		},
	}); err != nil {
		c.logger.DebugContext(ctx, "failed to ack join", "error", err)
		return memberId, false
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type:    "USER_JOINED",
		Payload: joinRoomResp.JoinedMember,
	})
	c.broadcast(ctx, append(joinRoomResp.Conns, conn), &Output{
		Type:    "USER_LIST_UPDATED",
		Payload: joinRoomResp.MemberList,
	})

	return memberId, true
}

func (c controller) serveSession(ctx context.Context, conn *connection.Conn, roomId, memberId string) {
	ctx = context.WithValue(ctx, roomIdCtxKey, roomId)
	ctx = context.WithValue(ctx, memberIdCtxKey, memberId)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "websocket session ended", "error", err)
	}
}

// disconnect removes the member and, when the room survives, announces the
// departure and the shrunken member list.
func (c controller) disconnect(ctx context.Context, memberId, roomId string) {
	c.roomLocks.Lock(roomId)
	defer c.roomLocks.Unlock(roomId)

	disconnectResp, err := c.roomService.Disconnect(ctx, &room.DisconnectParams{
		MemberId: memberId,
		RoomId:   roomId,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
		return
	}
	if disconnectResp.IsRoomDeleted {
		return
	}

	c.broadcast(ctx, disconnectResp.Conns, &Output{
		Type:    "USER_LEFT",
		Payload: map[string]string{"id": memberId},
	})
	c.broadcast(ctx, disconnectResp.Conns, &Output{
		Type:    "USER_LIST_UPDATED",
		Payload: disconnectResp.Members,
	})
}
