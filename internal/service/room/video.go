package room

import (
	"context"
	"fmt"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/repository/room"
)

const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionSeek  = "seek"
)

type LoadVideoParams struct {
	SenderId    string
	RoomId      string
	VideoURL    string
	CurrentTime float64
}

type LoadVideoResponse struct {
	Player Player
	// Conns includes the sender, so the local-then-broadcast client update is
	// idempotent.
	Conns []*connection.Conn
}

func (s service) LoadVideo(ctx context.Context, params *LoadVideoParams) (LoadVideoResponse, error) {
	if err := s.checkMembership(ctx, params.RoomId, params.SenderId); err != nil {
		return LoadVideoResponse{}, err
	}

	currentTime := params.CurrentTime
	if currentTime < 0 {
		currentTime = 0
	}

	player, err := s.roomRepo.SetVideo(ctx, &room.SetVideoParams{
		RoomId:      params.RoomId,
		VideoURL:    params.VideoURL,
		CurrentTime: currentTime,
	})
	if err != nil {
		return LoadVideoResponse{}, fmt.Errorf("failed to set video: %w", err)
	}

	s.logger.InfoContext(ctx, "video loaded", "room_id", params.RoomId, "video_url", params.VideoURL)

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return LoadVideoResponse{}, err
	}

	return LoadVideoResponse{
		Player: Player(player),
		Conns:  conns,
	}, nil
}

type VideoActionParams struct {
	SenderId    string
	RoomId      string
	Action      string
	CurrentTime float64
}

type VideoActionResponse struct {
	Action      string
	CurrentTime float64
	// Conns excludes the sender to avoid echo feedback loops.
	Conns []*connection.Conn
}

// VideoAction applies a play/pause/seek report. Last writer wins; the server
// never arbitrates which member may drive playback.
func (s service) VideoAction(ctx context.Context, params *VideoActionParams) (VideoActionResponse, error) {
	if err := s.checkMembership(ctx, params.RoomId, params.SenderId); err != nil {
		return VideoActionResponse{}, err
	}

	var isPlaying *bool
	switch params.Action {
	case ActionPlay:
		playing := true
		isPlaying = &playing
	case ActionPause:
		paused := false
		isPlaying = &paused
	case ActionSeek:
		// play state untouched
	default:
		return VideoActionResponse{}, fmt.Errorf("unknown action %q", params.Action)
	}

	if _, err := s.roomRepo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
		RoomId:      params.RoomId,
		CurrentTime: params.CurrentTime,
		IsPlaying:   isPlaying,
	}); err != nil {
		return VideoActionResponse{}, fmt.Errorf("failed to update player state: %w", err)
	}

	conns, err := s.getConnsByRoomIdExcept(ctx, params.RoomId, params.SenderId)
	if err != nil {
		return VideoActionResponse{}, err
	}

	return VideoActionResponse{
		Action:      params.Action,
		CurrentTime: params.CurrentTime,
		Conns:       conns,
	}, nil
}
