package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/repository/room"
)

type CreateRoomParams struct {
	Username string
}

type CreateRoomResponse struct {
	RoomId   string
	MemberId string
	Room     Room
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	memberId := uuid.NewString()

	var roomId string
	for {
		roomId = s.generator.GenerateRandomString(roomIdLength)
		err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
			RoomId:   roomId,
			HostId:   memberId,
			Username: params.Username,
		})
		if err == nil {
			break
		}
		// id collision is theoretical with a 62^6 space, retry
		if !errors.Is(err, room.ErrRoomAlreadyExists) {
			return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "room created", "room_id", roomId, "host_id", memberId)

	roomState, err := s.GetRoomState(ctx, roomId)
	if err != nil {
		return CreateRoomResponse{}, err
	}

	return CreateRoomResponse{
		RoomId:   roomId,
		MemberId: memberId,
		Room:     roomState,
	}, nil
}

type JoinRoomParams struct {
	RoomId   string
	Username string
}

type JoinRoomResponse struct {
	JoinedMember Member
	MemberList   []Member
	Room         Room
	// Conns are the members connected before the join, i.e. everyone but the
	// joiner.
	Conns []*connection.Conn
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	memberId := uuid.NewString()

	members, err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		RoomId:   params.RoomId,
		MemberId: memberId,
		Username: params.Username,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return JoinRoomResponse{}, ErrRoomNotFound
		}
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.InfoContext(ctx, "member joined", "room_id", params.RoomId, "member_id", memberId, "username", params.Username)

	roomState, err := s.GetRoomState(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, err
	}

	return JoinRoomResponse{
		JoinedMember: Member{
			Id:       memberId,
			Username: params.Username,
		},
		MemberList: mapMembers(members),
		Room:       roomState,
		Conns:      conns,
	}, nil
}

type ConnectMemberParams struct {
	Conn     *connection.Conn
	MemberId string
}

func (s service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := s.connRepo.Add(params.Conn, params.MemberId); err != nil {
		return fmt.Errorf("failed to connect member: %w", err)
	}

	return nil
}

type DisconnectParams struct {
	MemberId string
	RoomId   string
}

type DisconnectResponse struct {
	Conns         []*connection.Conn
	Members       []Member
	IsRoomDeleted bool
}

// Disconnect tears down a connection session: the member is removed from its
// room (deleting the room when it empties) and the live connection, if any,
// is dropped and closed.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	members, isRoomDeleted, err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		RoomId:   params.RoomId,
		MemberId: params.MemberId,
	})
	if conn, connErr := s.connRepo.RemoveByConnectionId(params.MemberId); connErr == nil {
		conn.Close()
	}

	if err != nil {
		// a lost race with room deletion leaves nothing to broadcast
		s.logger.DebugContext(ctx, "failed to remove member", "error", err)
		return DisconnectResponse{}, nil
	}

	s.logger.InfoContext(ctx, "member disconnected",
		"room_id", params.RoomId,
		"member_id", params.MemberId,
		"room_deleted", isRoomDeleted,
	)

	if isRoomDeleted {
		return DisconnectResponse{IsRoomDeleted: true}, nil
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return DisconnectResponse{}, err
	}

	return DisconnectResponse{
		Conns:   conns,
		Members: mapMembers(members),
	}, nil
}

func (s service) GetRoomState(ctx context.Context, roomId string) (Room, error) {
	roomState, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return Room{
		Id:      roomState.Id,
		HostId:  roomState.HostId,
		Player:  Player(roomState.Player),
		Members: mapMembers(roomState.Members),
	}, nil
}

func (s service) RoomCount(ctx context.Context) int {
	return len(s.roomRepo.GetRoomIds(ctx))
}
