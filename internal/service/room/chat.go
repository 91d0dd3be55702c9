package room

import (
	"context"
	"fmt"
	"time"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/repository/room"
)

type SendChatParams struct {
	SenderId string
	RoomId   string
	Text     string
}

type SendChatResponse struct {
	Message ChatMessage
	// Conns includes the sender: clients rely on the broadcast, not a local
	// echo, for their own messages.
	Conns []*connection.Conn
}

// SendChat stamps the message with a human-readable server time and fans it
// out in arrival order. No content validation, rate limiting or history.
func (s service) SendChat(ctx context.Context, params *SendChatParams) (SendChatResponse, error) {
	member, err := s.roomRepo.GetMember(ctx, &room.GetMemberParams{
		RoomId:   params.RoomId,
		MemberId: params.SenderId,
	})
	if err != nil {
		return SendChatResponse{}, ErrNotInRoom
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return SendChatResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	return SendChatResponse{
		Message: ChatMessage{
			Username:  member.Username,
			Text:      params.Text,
			Timestamp: time.Now().Format("15:04:05"),
		},
		Conns: conns,
	}, nil
}
