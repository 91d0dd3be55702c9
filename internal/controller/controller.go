package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vidroom/server/internal/service/room"
	"github.com/vidroom/server/pkg/keylock"
	"github.com/vidroom/server/pkg/validator"
	"github.com/vidroom/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
	GetRoomState(ctx context.Context, roomId string) (room.Room, error)
	RoomCount(ctx context.Context) int
	LoadVideo(context.Context, *room.LoadVideoParams) (room.LoadVideoResponse, error)
	VideoAction(context.Context, *room.VideoActionParams) (room.VideoActionResponse, error)
	SendChat(context.Context, *room.SendChatParams) (room.SendChatResponse, error)
	ForwardSignal(context.Context, *room.ForwardSignalParams) (room.ForwardSignalResponse, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	roomLocks   *keylock.KeyLock
	wsmux       *wsrouter.WSRouter
	staticDir   string
	logger      *slog.Logger
}

func NewController(roomService iRoomService, staticDir string, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		roomLocks:   keylock.New(),
		staticDir:   staticDir,
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
