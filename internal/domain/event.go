package domain

// Realtime event names. Inbound names are sent by clients, the rest are
// published by the server.
const (
	EventRoomJoin     = "room:join"
	EventChatSend     = "chat:send"
	EventOXPollCreate = "oxpoll:create"
	EventOXPollAnswer = "oxpoll:answer"
	EventCheckCreate  = "check:create"
	EventCheckToggle  = "check:toggle"
	EventDrawStart    = "draw:start"

	EventRoomJoined     = "room:joined"
	EventRoomHistory    = "room:history"
	EventChatMessage    = "chat:message"
	EventOXPollCreated  = "oxpoll:created"
	EventOXPollAnswered = "oxpoll:answered"
	EventCheckCreated   = "check:created"
	EventCheckToggled   = "check:toggled"
	EventDrawResult     = "draw:result"
	EventQuizCreated    = "quiz:created"
	EventQuizSubmitted  = "quiz:submitted"
	EventImageUploaded  = "image:uploaded"
	EventUserLeft       = "user:left"
	EventError          = "error"
)

// Envelope is the frame written to and read from realtime connections.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
