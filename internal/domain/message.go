package domain

import "encoding/json"

// Inbound message types (client -> server).
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeStartPoll  = "start_poll"
	TypeVote       = "vote"
	TypeEndPoll    = "end_poll"
	TypeLeaveRoom  = "leave_room"
)

// Outbound message types (server -> client).
const (
	TypeRoomCreated = "room_created"
	TypeRoomJoined  = "room_joined"
	TypePollStarted = "poll_started"
	TypeVoteUpdate  = "vote_update"
	TypeTimerUpdate = "timer_update"
	TypePollEnded   = "poll_ended"
	TypeUserLeft    = "user_left"
	TypeError       = "error"
)

// Envelope is the raw inbound frame; Payload is decoded per type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is an outbound frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// --- Inbound payloads ---

type CreateRoomPayload struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type StartPollPayload struct {
	RoomCode  string   `json:"roomCode"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	StartTime int64    `json:"startTime"`
}

// VotePayload keeps optionIndex raw: a non-numeric index is ignored, not rejected.
type VotePayload struct {
	RoomCode    string          `json:"roomCode"`
	OptionIndex json.RawMessage `json:"optionIndex"`
}

type RoomRefPayload struct {
	RoomCode string `json:"roomCode"`
}

// --- Outbound payloads ---

type RoomCreated struct {
	RoomCode string `json:"roomCode"`
}

type PollStarted struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeRemaining int      `json:"timeRemaining"`
	StartTime     int64    `json:"startTime"`
}

type VoteUpdate struct {
	Results []int `json:"results"`
}

type TimerUpdate struct {
	TimeRemaining int `json:"timeRemaining"`
}

type PollEnded struct {
	Results []int  `json:"results"`
	Winner  string `json:"winner"`
}

type UserLeft struct {
	RoomCode string     `json:"roomCode"`
	Username string     `json:"username"`
	Users    []UserInfo `json:"users"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewErrorMessage builds an error frame for a single connection.
func NewErrorMessage(text string) Message {
	return Message{Type: TypeError, Payload: ErrorPayload{Message: text}}
}
