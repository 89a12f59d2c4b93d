package entities

import "encoding/json"

type datumConstructor func(json.RawMessage) (Datum, error)

var messageConstructors = map[string]datumConstructor{
	"FriendMessage": func(raw json.RawMessage) (Datum, error) { return unmarshalInto[FriendMessage](raw) },
	"GroupMessage":  func(raw json.RawMessage) (Datum, error) { return unmarshalInto[GroupMessage](raw) },
	"TempMessage":   func(raw json.RawMessage) (Datum, error) { return unmarshalInto[TempMessage](raw) },
	"StrangerMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[StrangerMessage](raw)
	},
	"OtherClientMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[OtherClientMessage](raw)
	},
}

var syncMessageConstructors = map[string]datumConstructor{
	"FriendSyncMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[FriendSyncMessage](raw)
	},
	"GroupSyncMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[GroupSyncMessage](raw)
	},
	"TempSyncMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[TempSyncMessage](raw)
	},
	"StrangerSyncMessage": func(raw json.RawMessage) (Datum, error) {
		return unmarshalInto[StrangerSyncMessage](raw)
	},
}

var eventConstructors = map[string]datumConstructor{
	"BotMuteEvent":          func(raw json.RawMessage) (Datum, error) { return unmarshalInto[BotMuteEvent](raw) },
	"BotUnmuteEvent":        func(raw json.RawMessage) (Datum, error) { return unmarshalInto[BotUnmuteEvent](raw) },
	"BotJoinGroupEvent":     func(raw json.RawMessage) (Datum, error) { return unmarshalInto[BotJoinGroupEvent](raw) },
	"GroupRecallEvent":      func(raw json.RawMessage) (Datum, error) { return unmarshalInto[GroupRecallEvent](raw) },
	"FriendRecallEvent":     func(raw json.RawMessage) (Datum, error) { return unmarshalInto[FriendRecallEvent](raw) },
	"NudgeEvent":            func(raw json.RawMessage) (Datum, error) { return unmarshalInto[NudgeEvent](raw) },
	"MemberJoinEvent":       func(raw json.RawMessage) (Datum, error) { return unmarshalInto[MemberJoinEvent](raw) },
	"MemberLeaveEventKick":  func(raw json.RawMessage) (Datum, error) { return unmarshalInto[MemberLeaveEventKick](raw) },
	"MemberLeaveEventQuit":  func(raw json.RawMessage) (Datum, error) { return unmarshalInto[MemberLeaveEventQuit](raw) },
	"GroupNameChangeEvent":  func(raw json.RawMessage) (Datum, error) { return unmarshalInto[GroupNameChangeEvent](raw) },
	"GroupMuteAllEvent":     func(raw json.RawMessage) (Datum, error) { return unmarshalInto[GroupMuteAllEvent](raw) },
	"MemberMuteEvent":       func(raw json.RawMessage) (Datum, error) { return unmarshalInto[MemberMuteEvent](raw) },
	"MemberUnmuteEvent":     func(raw json.RawMessage) (Datum, error) { return unmarshalInto[MemberUnmuteEvent](raw) },
}
