package room

type Member struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type Player struct {
	VideoURL    string  `json:"video_url"`
	CurrentTime float64 `json:"current_time"`
	IsPlaying   bool    `json:"is_playing"`
}

type Room struct {
	Id      string   `json:"id"`
	HostId  string   `json:"host_id"`
	Player  Player   `json:"player"`
	Members []Member `json:"members"`
}
