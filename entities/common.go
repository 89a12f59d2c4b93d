package entities

// Friend is a bot contact outside any group.
type Friend struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Remark   string `json:"remark"`
}

// Group is a chat group the bot participates in.
type Group struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Permission string `json:"permission"`
}

// Member is a group member, distinct from a Friend even for the same
// underlying account, since group-scoped fields (card, title, mute
// state) only make sense in a Group context.
type Member struct {
	ID                 int64  `json:"id"`
	MemberName         string `json:"memberName"`
	Permission         string `json:"permission"`
	SpecialTitle       string `json:"specialTitle"`
	JoinTimestamp      int64  `json:"joinTimestamp"`
	LastSpeakTimestamp int64  `json:"lastSpeakTimestamp"`
	MuteTimeRemaining  int64  `json:"muteTimeRemaining"`
	Group              Group  `json:"group"`
}

// Client identifies another client of the same bot account, used by
// sync messages and OtherClientMessage.
type Client struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
}

// Subject is the generic (kind, id) pair used by events like NudgeEvent
// whose target may be either a Friend or a Group.
type Subject struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"` // "Friend" or "Group"
}
