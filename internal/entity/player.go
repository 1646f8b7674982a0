package entity

type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoomCode string `json:"roomCode,omitempty"`
	IsHost   bool   `json:"isHost"`
}
