package dispatch

import (
	"testing"

	"github.com/lightq-go/lightq/entities"
)

func TestReplyTargetForDatum(t *testing.T) {
	cases := []struct {
		name   string
		datum  entities.Datum
		kind   string
		id     int64
		member int64
	}{
		{
			name:  "friend message",
			datum: entities.FriendMessage{MessageSender: entities.Friend{ID: 7}},
			kind:  "friend", id: 7,
		},
		{
			name:  "group message",
			datum: entities.GroupMessage{MessageSender: entities.Member{ID: 1, Group: entities.Group{ID: 99}}},
			kind:  "group", id: 99,
		},
		{
			name:  "temp message",
			datum: entities.TempMessage{MessageSender: entities.Member{ID: 5, Group: entities.Group{ID: 42}}},
			kind:  "temp", id: 42, member: 5,
		},
		{
			name:  "friend recall event",
			datum: entities.FriendRecallEvent{AuthorID: 55},
			kind:  "friend", id: 55,
		},
		{
			name:  "nudge event in a group",
			datum: entities.NudgeEvent{FromID: 1, Subject: entities.Subject{ID: 77, Kind: "Group"}},
			kind:  "group", id: 77,
		},
		{
			name:  "nudge event in a friend chat",
			datum: entities.NudgeEvent{FromID: 1, Subject: entities.Subject{ID: 88, Kind: "Friend"}},
			kind:  "friend", id: 88,
		},
		{
			name:  "member join event",
			datum: entities.MemberJoinEvent{Member: entities.Member{ID: 3, Group: entities.Group{ID: 66}}},
			kind:  "group", id: 66,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := replyTargetForDatum(tc.datum)
			if !ok {
				t.Fatalf("no reply target resolved")
			}
			if target.kind != tc.kind || target.id != tc.id || target.memberID != tc.member {
				t.Errorf("got {%s %d %d}, want {%s %d %d}", target.kind, target.id, target.memberID, tc.kind, tc.id, tc.member)
			}
		})
	}
}

func TestReplyTargetForDatum_OtherClientMessageHasNoRule(t *testing.T) {
	_, ok := replyTargetForDatum(entities.OtherClientMessage{})
	if ok {
		t.Error("OtherClientMessage should resolve to no reply target")
	}
}

func TestOperatorIDOf_NilOperatorIsAbsent(t *testing.T) {
	_, ok := operatorIDOf(entities.GroupRecallEvent{Operator: nil})
	if ok {
		t.Error("nil *Member operator should resolve to absent, not zero")
	}
	id, ok := operatorIDOf(entities.GroupRecallEvent{Operator: &entities.Member{ID: 9}})
	if !ok || id != 9 {
		t.Errorf("operatorIDOf = (%d, %v), want (9, true)", id, ok)
	}
}

func TestSenderIDOf(t *testing.T) {
	id, ok := senderIDOf(entities.GroupMessage{MessageSender: entities.Member{ID: 12}})
	if !ok || id != 12 {
		t.Errorf("senderIDOf = (%d, %v), want (12, true)", id, ok)
	}
}
