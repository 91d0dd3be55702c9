package room

import (
	"context"
	"fmt"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/repository/room"
)

func (s service) getConnsByRoomId(ctx context.Context, roomId string) ([]*connection.Conn, error) {
	return s.getConnsByRoomIdExcept(ctx, roomId, "")
}

// getConnsByRoomIdExcept returns the live connections of the room's members,
// skipping exceptId. Members without a registered connection (joined but not
// yet upgraded, or mid-disconnect) are skipped rather than treated as errors.
func (s service) getConnsByRoomIdExcept(ctx context.Context, roomId, exceptId string) ([]*connection.Conn, error) {
	members, err := s.roomRepo.GetMembers(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	conns := make([]*connection.Conn, 0, len(members))
	for _, member := range members {
		if member.Id == exceptId {
			continue
		}

		conn, err := s.connRepo.GetConn(member.Id)
		if err != nil {
			s.logger.DebugContext(ctx, "member has no live connection", "member_id", member.Id)
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

// checkMembership reports ErrNotInRoom for senders that lost their room in a
// race with leave, so callers can drop the request silently.
func (s service) checkMembership(ctx context.Context, roomId, memberId string) error {
	if _, err := s.roomRepo.GetMember(ctx, &room.GetMemberParams{
		RoomId:   roomId,
		MemberId: memberId,
	}); err != nil {
		return ErrNotInRoom
	}

	return nil
}

func mapMembers(members []room.Member) []Member {
	mapped := make([]Member, 0, len(members))
	for _, member := range members {
		mapped = append(mapped, Member(member))
	}

	return mapped
}
