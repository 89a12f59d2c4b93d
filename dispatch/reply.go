package dispatch

import "github.com/lightq-go/lightq/entities"

// replyTarget names where an auto-reply (or a resolver asking for
// "the current group/sender") should go, per the originating-subject
// rules of §4.5. Each concrete Datum type statically determines its own
// target, which is the Go-idiomatic stand-in for the source's dynamic
// field-probing (`group` → `operator.group` → `member.group` → `friend`
// → per-event special case): the priority order is baked into which
// field each type actually carries, so the case below reproduces the
// same order without probing at runtime.
type replyTarget struct {
	kind     string // "friend", "group", or "temp"
	id       int64  // friend id, or group id
	memberID int64  // set only when kind == "temp"
}

func replyTargetForDatum(d entities.Datum) (replyTarget, bool) {
	switch v := d.(type) {
	case entities.FriendMessage:
		return replyTarget{kind: "friend", id: v.MessageSender.ID}, true
	case entities.GroupMessage:
		return replyTarget{kind: "group", id: v.MessageSender.Group.ID}, true
	case entities.TempMessage:
		return replyTarget{kind: "temp", id: v.MessageSender.Group.ID, memberID: v.MessageSender.ID}, true
	case entities.StrangerMessage:
		return replyTarget{kind: "friend", id: v.MessageSender.ID}, true

	case entities.BotMuteEvent:
		return replyTarget{kind: "group", id: v.Operator.Group.ID}, true
	case entities.BotUnmuteEvent:
		return replyTarget{kind: "group", id: v.Operator.Group.ID}, true
	case entities.BotJoinGroupEvent:
		return replyTarget{kind: "group", id: v.Group.ID}, true
	case entities.GroupRecallEvent:
		return replyTarget{kind: "group", id: v.Group.ID}, true
	case entities.FriendRecallEvent:
		return replyTarget{kind: "friend", id: v.AuthorID}, true
	case entities.NudgeEvent:
		if v.Subject.Kind == "Group" {
			return replyTarget{kind: "group", id: v.Subject.ID}, true
		}
		return replyTarget{kind: "friend", id: v.Subject.ID}, true
	case entities.MemberJoinEvent:
		return replyTarget{kind: "group", id: v.Member.Group.ID}, true
	case entities.MemberLeaveEventKick:
		return replyTarget{kind: "group", id: v.Member.Group.ID}, true
	case entities.MemberLeaveEventQuit:
		return replyTarget{kind: "group", id: v.Member.Group.ID}, true
	case entities.GroupNameChangeEvent:
		return replyTarget{kind: "group", id: v.Group.ID}, true
	case entities.GroupMuteAllEvent:
		return replyTarget{kind: "group", id: v.Group.ID}, true
	case entities.MemberMuteEvent:
		return replyTarget{kind: "group", id: v.Member.Group.ID}, true
	case entities.MemberUnmuteEvent:
		return replyTarget{kind: "group", id: v.Member.Group.ID}, true
	default:
		return replyTarget{}, false
	}
}

func groupIDOf(d entities.Datum) (int64, bool) {
	t, ok := replyTargetForDatum(d)
	if !ok || (t.kind != "group" && t.kind != "temp") {
		return 0, false
	}
	return t.id, true
}

func senderIDOf(d entities.Datum) (int64, bool) {
	msg, ok := d.(entities.Message)
	if !ok {
		return 0, false
	}
	switch s := msg.Sender().(type) {
	case entities.Friend:
		return s.ID, true
	case entities.Member:
		return s.ID, true
	case entities.Client:
		return s.ID, true
	default:
		return 0, false
	}
}

func operatorIDOf(d entities.Datum) (int64, bool) {
	switch v := d.(type) {
	case entities.BotMuteEvent:
		return v.Operator.ID, true
	case entities.BotUnmuteEvent:
		return v.Operator.ID, true
	case entities.GroupRecallEvent:
		return memberIDOrFalse(v.Operator)
	case entities.FriendRecallEvent:
		return v.Operator, true
	case entities.NudgeEvent:
		return v.FromID, true
	case entities.MemberLeaveEventKick:
		return memberIDOrFalse(v.Operator)
	case entities.GroupNameChangeEvent:
		return memberIDOrFalse(v.Operator)
	case entities.GroupMuteAllEvent:
		return memberIDOrFalse(v.Operator)
	case entities.MemberMuteEvent:
		return memberIDOrFalse(v.Operator)
	case entities.MemberUnmuteEvent:
		return memberIDOrFalse(v.Operator)
	default:
		return 0, false
	}
}

func memberIDOrFalse(m *entities.Member) (int64, bool) {
	if m == nil {
		return 0, false
	}
	return m.ID, true
}
