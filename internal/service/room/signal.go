package room

import (
	"context"
	"encoding/json"

	"github.com/vidroom/server/internal/repository/connection"
)

type ForwardSignalParams struct {
	SenderId string
	TargetId string
	// Payload is an opaque session description or ICE candidate; the relay
	// never inspects it.
	Payload json.RawMessage
}

type ForwardSignalResponse struct {
	Conn *connection.Conn
}

// ForwardSignal resolves the target connection for a signaling message. The
// caller delivers fire-and-forget; an unknown target is reported so the
// message can be dropped silently.
func (s service) ForwardSignal(ctx context.Context, params *ForwardSignalParams) (ForwardSignalResponse, error) {
	conn, err := s.connRepo.GetConn(params.TargetId)
	if err != nil {
		s.logger.DebugContext(ctx, "signal target not connected",
			"sender_id", params.SenderId,
			"target_id", params.TargetId,
		)
		return ForwardSignalResponse{}, ErrTargetNotFound
	}

	return ForwardSignalResponse{Conn: conn}, nil
}
