package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vidroom/server/internal/repository/connection"
	"github.com/vidroom/server/internal/repository/room"
	"github.com/vidroom/server/pkg/randstr"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotInRoom      = errors.New("sender is not in the room")
	ErrTargetNotFound = errors.New("target connection not found")
)

const roomIdLength = 6

type iRoomRepo interface {
	CreateRoom(context.Context, *room.CreateRoomParams) error
	GetRoom(ctx context.Context, roomId string) (room.Room, error)
	GetRoomIds(ctx context.Context) []string
	AddMember(context.Context, *room.AddMemberParams) ([]room.Member, error)
	RemoveMember(context.Context, *room.RemoveMemberParams) ([]room.Member, bool, error)
	GetMember(context.Context, *room.GetMemberParams) (room.Member, error)
	GetMembers(ctx context.Context, roomId string) ([]room.Member, error)
	SetVideo(context.Context, *room.SetVideoParams) (room.Player, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) (room.Player, error)
}

type iConnRepo interface {
	Add(conn *connection.Conn, connectionId string) error
	RemoveByConnectionId(connectionId string) (*connection.Conn, error)
	GetConn(connectionId string) (*connection.Conn, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type service struct {
	roomRepo  iRoomRepo
	connRepo  iConnRepo
	generator iGenerator
	logger    *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) *service {
	s := service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
	}

	letterBytes := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	s.generator = randstr.New(letterBytes)

	return &s
}
