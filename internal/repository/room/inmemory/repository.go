package inmemory

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/vidroom/server/internal/repository/room"
)

type roomState struct {
	hostId  string
	player  room.Player
	members []room.Member
}

// repo is the in-memory room registry. Every exported method is atomic under
// the registry lock; rooms exist iff they have at least one member.
type repo struct {
	rooms map[string]*roomState
	mu    sync.RWMutex
}

func NewRepo() *repo {
	return &repo{rooms: make(map[string]*roomState)}
}

func (r *repo) CreateRoom(_ context.Context, params *room.CreateRoomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[params.RoomId]; exists {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[params.RoomId] = &roomState{
		hostId: params.HostId,
		members: []room.Member{{
			Id:       params.HostId,
			Username: params.Username,
		}},
	}

	return nil
}

func (r *repo) GetRoom(_ context.Context, roomId string) (room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.rooms[roomId]
	if !exists {
		return room.Room{}, room.ErrRoomNotFound
	}

	return room.Room{
		Id:      roomId,
		HostId:  state.hostId,
		Player:  state.player,
		Members: slices.Clone(state.members),
	}, nil
}

func (r *repo) GetRoomIds(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.rooms)
}

// AddMember appends the member in join order and returns the resulting list.
func (r *repo) AddMember(_ context.Context, params *room.AddMemberParams) ([]room.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.rooms[params.RoomId]
	if !exists {
		return nil, room.ErrRoomNotFound
	}

	for _, member := range state.members {
		if member.Id == params.MemberId {
			return nil, room.ErrMemberAlreadyExists
		}
	}

	state.members = append(state.members, room.Member{
		Id:       params.MemberId,
		Username: params.Username,
	})

	return slices.Clone(state.members), nil
}

// RemoveMember removes the member and deletes the room when it empties. The
// second return value reports whether the room was deleted.
func (r *repo) RemoveMember(_ context.Context, params *room.RemoveMemberParams) ([]room.Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.rooms[params.RoomId]
	if !exists {
		return nil, false, room.ErrRoomNotFound
	}

	i := slices.IndexFunc(state.members, func(m room.Member) bool {
		return m.Id == params.MemberId
	})
	if i < 0 {
		return nil, false, room.ErrMemberNotFound
	}

	state.members = slices.Delete(state.members, i, i+1)

	if len(state.members) == 0 {
		delete(r.rooms, params.RoomId)
		return nil, true, nil
	}

	return slices.Clone(state.members), false, nil
}

func (r *repo) GetMember(_ context.Context, params *room.GetMemberParams) (room.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.rooms[params.RoomId]
	if !exists {
		return room.Member{}, room.ErrRoomNotFound
	}

	for _, member := range state.members {
		if member.Id == params.MemberId {
			return member, nil
		}
	}

	return room.Member{}, room.ErrMemberNotFound
}

func (r *repo) GetMembers(_ context.Context, roomId string) ([]room.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.rooms[roomId]
	if !exists {
		return nil, room.ErrRoomNotFound
	}

	return slices.Clone(state.members), nil
}

// SetVideo loads a new video: the offset is taken as-is and playback always
// restarts paused.
func (r *repo) SetVideo(_ context.Context, params *room.SetVideoParams) (room.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.rooms[params.RoomId]
	if !exists {
		return room.Player{}, room.ErrRoomNotFound
	}

	state.player = room.Player{
		VideoURL:    params.VideoURL,
		CurrentTime: params.CurrentTime,
		IsPlaying:   false,
	}

	return state.player, nil
}

func (r *repo) UpdatePlayerState(_ context.Context, params *room.UpdatePlayerStateParams) (room.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, exists := r.rooms[params.RoomId]
	if !exists {
		return room.Player{}, room.ErrRoomNotFound
	}

	state.player.CurrentTime = params.CurrentTime
	if params.IsPlaying != nil {
		state.player.IsPlaying = *params.IsPlaying
	}

	return state.player, nil
}
