package room

type CreateRoomParams struct {
	RoomId   string
	HostId   string
	Username string
}

type AddMemberParams struct {
	RoomId   string
	MemberId string
	Username string
}

type RemoveMemberParams struct {
	RoomId   string
	MemberId string
}

type GetMemberParams struct {
	RoomId   string
	MemberId string
}

type SetVideoParams struct {
	RoomId      string
	VideoURL    string
	CurrentTime float64
}

// UpdatePlayerStateParams carries a playback snapshot. A nil IsPlaying leaves
// the play/pause state untouched (seek).
type UpdatePlayerStateParams struct {
	RoomId      string
	CurrentTime float64
	IsPlaying   *bool
}
