package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vidroom/server/internal/service/room"
	"github.com/vidroom/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type AliveInput struct{}

func (c controller) handleAlive(ctx context.Context, conn wsrouter.Conn, input AliveInput) error {
	return nil
}

type ChatMessageInput struct {
	Text string `json:"text"`
}

func (c controller) handleChatMessage(ctx context.Context, conn wsrouter.Conn, input ChatMessageInput) error {
	sendChatResp, err := c.roomService.SendChat(ctx, &room.SendChatParams{
		SenderId: c.getMemberIdFromCtx(ctx),
		RoomId:   c.getRoomIdFromCtx(ctx),
		Text:     input.Text,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotInRoom) {
			c.logger.DebugContext(ctx, "chat message from a stale session dropped")
			return nil
		}
		return fmt.Errorf("failed to send chat message: %w", err)
	}

	c.broadcast(ctx, sendChatResp.Conns, &Output{
		Type:    "NEW_CHAT_MESSAGE",
		Payload: sendChatResp.Message,
	})

	return nil
}

type LoadVideoInput struct {
	URL  string  `json:"url" validate:"required"`
	Time float64 `json:"time"`
}

func (c controller) handleLoadVideo(ctx context.Context, conn wsrouter.Conn, input LoadVideoInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("validation error: %v", validationErrors)
	}

	loadVideoResp, err := c.roomService.LoadVideo(ctx, &room.LoadVideoParams{
		SenderId:    c.getMemberIdFromCtx(ctx),
		RoomId:      c.getRoomIdFromCtx(ctx),
		VideoURL:    input.URL,
		CurrentTime: input.Time,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotInRoom) {
			c.logger.DebugContext(ctx, "load video from a stale session dropped")
			return nil
		}
		return fmt.Errorf("failed to load video: %w", err)
	}

	c.broadcast(ctx, loadVideoResp.Conns, &Output{
		Type:    "VIDEO_LOADED",
		Payload: loadVideoResp.Player,
	})

	return nil
}

type VideoActionInput struct {
	Action string  `json:"action" validate:"required,oneof=play pause seek"`
	Time   float64 `json:"time"`
}

func (c controller) handleVideoAction(ctx context.Context, conn wsrouter.Conn, input VideoActionInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("validation error: %v", validationErrors)
	}

	videoActionResp, err := c.roomService.VideoAction(ctx, &room.VideoActionParams{
		SenderId:    c.getMemberIdFromCtx(ctx),
		RoomId:      c.getRoomIdFromCtx(ctx),
		Action:      input.Action,
		CurrentTime: input.Time,
	})
	if err != nil {
		if errors.Is(err, room.ErrNotInRoom) {
			c.logger.DebugContext(ctx, "video action from a stale session dropped")
			return nil
		}
		return fmt.Errorf("failed to apply video action: %w", err)
	}

	c.broadcast(ctx, videoActionResp.Conns, &Output{
		Type: "VIDEO_EVENT",
		Payload: map[string]any{
			"action": videoActionResp.Action,
			"time":   videoActionResp.CurrentTime,
		},
	})

	return nil
}

type SignalInput struct {
	TargetId string          `json:"target_id" validate:"required"`
	Payload  json.RawMessage `json:"payload"`
}

// handleWebrtcSignal relays an opaque signaling payload to a single member.
// The outbound message keeps the inbound type and is relabeled with the
// sender id so the target knows whom to answer.
func (c controller) handleWebrtcSignal(ctx context.Context, conn wsrouter.Conn, input SignalInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("validation error: %v", validationErrors)
	}

	senderId := c.getMemberIdFromCtx(ctx)
	forwardSignalResp, err := c.roomService.ForwardSignal(ctx, &room.ForwardSignalParams{
		SenderId: senderId,
		TargetId: input.TargetId,
		Payload:  input.Payload,
	})
	if err != nil {
		if errors.Is(err, room.ErrTargetNotFound) {
			return nil
		}
		return fmt.Errorf("failed to forward signal: %w", err)
	}

	output := &Output{
		Type: wsrouter.GetMessageTypeFromCtx(ctx),
		Payload: map[string]any{
			"sender_id": senderId,
			"payload":   input.Payload,
		},
	}
	if err := c.writeToConn(ctx, forwardSignalResp.Conn, output); err != nil {
		c.logger.DebugContext(ctx, "signal dropped", "target_id", input.TargetId, "error", err)
	}

	return nil
}
