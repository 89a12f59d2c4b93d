package entities

import "reflect"

// Event is the common interface implemented by every domain event. As
// with Message, a handler registered for Event matches any event, while
// one registered for a concrete variant only matches that variant.
type Event interface {
	Datum
	isEvent()
}

var eventInterfaceType = reflect.TypeOf((*Event)(nil)).Elem()

// IsEventType reports whether t is the Event interface itself or a
// concrete type implementing it.
func IsEventType(t reflect.Type) bool {
	return t == eventInterfaceType || t.Implements(eventInterfaceType)
}

func eventChain[T Event](v T) []reflect.Type {
	return []reflect.Type{reflect.TypeOf(v), eventInterfaceType}
}

// BotMuteEvent fires when the bot is muted in a group.
type BotMuteEvent struct {
	DurationSeconds int64  `json:"durationSeconds"`
	Operator        Member `json:"operator"`
}

func (BotMuteEvent) isDatum() {}
func (BotMuteEvent) isEvent() {}
func (e BotMuteEvent) TypeChain() []reflect.Type { return eventChain(e) }

// BotUnmuteEvent fires when the bot's mute in a group is lifted.
type BotUnmuteEvent struct {
	Operator Member `json:"operator"`
}

func (BotUnmuteEvent) isDatum() {}
func (BotUnmuteEvent) isEvent() {}
func (e BotUnmuteEvent) TypeChain() []reflect.Type { return eventChain(e) }

// BotJoinGroupEvent fires when the bot joins a group.
type BotJoinGroupEvent struct {
	Group Group `json:"group"`
}

func (BotJoinGroupEvent) isDatum() {}
func (BotJoinGroupEvent) isEvent() {}
func (e BotJoinGroupEvent) TypeChain() []reflect.Type { return eventChain(e) }

// GroupRecallEvent fires when a message in a group is recalled.
type GroupRecallEvent struct {
	AuthorID  int64   `json:"authorId"`
	MessageID int64   `json:"messageId"`
	Time      int64   `json:"time"`
	Group     Group   `json:"group"`
	Operator  *Member `json:"operator"`
}

func (GroupRecallEvent) isDatum() {}
func (GroupRecallEvent) isEvent() {}
func (e GroupRecallEvent) TypeChain() []reflect.Type { return eventChain(e) }

// FriendRecallEvent fires when a friend recalls a private message. It has
// no group, member or friend field, and its Operator is a bare account id
// rather than a Member — the originating subject is the recalling friend,
// carried as AuthorID.
type FriendRecallEvent struct {
	AuthorID  int64 `json:"authorId"`
	MessageID int64 `json:"messageId"`
	Time      int64 `json:"time"`
	Operator  int64 `json:"operator"`
}

func (FriendRecallEvent) isDatum() {}
func (FriendRecallEvent) isEvent() {}
func (e FriendRecallEvent) TypeChain() []reflect.Type { return eventChain(e) }

// NudgeEvent fires when someone "nudges" (pokes) another account, in a
// friend chat or within a group. Subject is the reply target: a Friend or
// a Group, distinguished by Subject.Kind.
type NudgeEvent struct {
	FromID  int64   `json:"fromId"`
	Target  int64   `json:"target"`
	Subject Subject `json:"subject"`
}

func (NudgeEvent) isDatum() {}
func (NudgeEvent) isEvent() {}
func (e NudgeEvent) TypeChain() []reflect.Type { return eventChain(e) }

// MemberJoinEvent fires when a member joins a group.
type MemberJoinEvent struct {
	Member Member `json:"member"`
}

func (MemberJoinEvent) isDatum() {}
func (MemberJoinEvent) isEvent() {}
func (e MemberJoinEvent) TypeChain() []reflect.Type { return eventChain(e) }

// MemberLeaveEventKick fires when a member is removed from a group.
type MemberLeaveEventKick struct {
	Member   Member  `json:"member"`
	Operator *Member `json:"operator"`
}

func (MemberLeaveEventKick) isDatum() {}
func (MemberLeaveEventKick) isEvent() {}
func (e MemberLeaveEventKick) TypeChain() []reflect.Type { return eventChain(e) }

// MemberLeaveEventQuit fires when a member leaves a group voluntarily.
type MemberLeaveEventQuit struct {
	Member Member `json:"member"`
}

func (MemberLeaveEventQuit) isDatum() {}
func (MemberLeaveEventQuit) isEvent() {}
func (e MemberLeaveEventQuit) TypeChain() []reflect.Type { return eventChain(e) }

// GroupNameChangeEvent fires when a group's display name changes.
type GroupNameChangeEvent struct {
	Origin   string  `json:"origin"`
	Current  string  `json:"current"`
	Group    Group   `json:"group"`
	Operator *Member `json:"operator"`
}

func (GroupNameChangeEvent) isDatum() {}
func (GroupNameChangeEvent) isEvent() {}
func (e GroupNameChangeEvent) TypeChain() []reflect.Type { return eventChain(e) }

// GroupMuteAllEvent fires when group-wide mute is toggled.
type GroupMuteAllEvent struct {
	Origin   bool    `json:"origin"`
	Current  bool    `json:"current"`
	Group    Group   `json:"group"`
	Operator *Member `json:"operator"`
}

func (GroupMuteAllEvent) isDatum() {}
func (GroupMuteAllEvent) isEvent() {}
func (e GroupMuteAllEvent) TypeChain() []reflect.Type { return eventChain(e) }

// MemberMuteEvent fires when a specific member is muted.
type MemberMuteEvent struct {
	DurationSeconds int64   `json:"durationSeconds"`
	Member          Member  `json:"member"`
	Operator        *Member `json:"operator"`
}

func (MemberMuteEvent) isDatum() {}
func (MemberMuteEvent) isEvent() {}
func (e MemberMuteEvent) TypeChain() []reflect.Type { return eventChain(e) }

// MemberUnmuteEvent fires when a specific member's mute is lifted.
type MemberUnmuteEvent struct {
	Member   Member  `json:"member"`
	Operator *Member `json:"operator"`
}

func (MemberUnmuteEvent) isDatum() {}
func (MemberUnmuteEvent) isEvent() {}
func (e MemberUnmuteEvent) TypeChain() []reflect.Type { return eventChain(e) }
