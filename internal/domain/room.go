package domain

// Member is a (display name, connection) pair inside a Room.
type Member struct {
	Username string
	Avatar   string
	Conn     Connection
}

// Room is an isolated group of members sharing one poll history.
// Members keep join order; Polls is append-only.
type Room struct {
	Code    string
	Members []Member
	Polls   []*Poll
}

func NewRoom(code string) *Room {
	return &Room{Code: code}
}

// HasMember reports whether username is already taken in the room.
func (r *Room) HasMember(username string) bool {
	for _, m := range r.Members {
		if m.Username == username {
			return true
		}
	}
	return false
}

// RemoveMember drops the member with the given name. Returns false if absent.
func (r *Room) RemoveMember(username string) bool {
	for i, m := range r.Members {
		if m.Username == username {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// CurrentPoll returns the most recently created poll, or nil.
func (r *Room) CurrentPoll() *Poll {
	if len(r.Polls) == 0 {
		return nil
	}
	return r.Polls[len(r.Polls)-1]
}

// ActivePoll returns the current poll only while it is still active.
func (r *Room) ActivePoll() *Poll {
	if p := r.CurrentPoll(); p != nil && p.Active {
		return p
	}
	return nil
}

// Users lists the public member info in join order.
func (r *Room) Users() []UserInfo {
	users := make([]UserInfo, 0, len(r.Members))
	for _, m := range r.Members {
		users = append(users, UserInfo{Username: m.Username, Avatar: m.Avatar})
	}
	return users
}

// Snapshot is what a joining member needs to render the room.
func (r *Room) Snapshot() RoomSnapshot {
	snap := RoomSnapshot{RoomCode: r.Code, Users: r.Users()}
	if p := r.ActivePoll(); p != nil {
		view := p.View()
		snap.Poll = &view
	}
	return snap
}

// RoomSnapshot is the payload of room_joined.
type RoomSnapshot struct {
	RoomCode string     `json:"roomCode"`
	Users    []UserInfo `json:"users"`
	Poll     *PollView  `json:"poll"`
}

type UserInfo struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}
