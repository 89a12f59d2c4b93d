package entities

import "reflect"

// SyncMessage mirrors a message sent from another client of the same bot
// account; the sender is always the bot itself, so only the subject (the
// recipient) is carried.
type SyncMessage interface {
	Datum
	isSyncMessage()
}

var syncMessageInterfaceType = reflect.TypeOf((*SyncMessage)(nil)).Elem()

func syncChain[T SyncMessage](v T) []reflect.Type {
	return []reflect.Type{reflect.TypeOf(v), syncMessageInterfaceType}
}

// FriendSyncMessage mirrors an outbound friend message.
type FriendSyncMessage struct {
	MessageSubject Friend       `json:"subject"`
	MessageChain_  MessageChain `json:"messageChain"`
}

func (FriendSyncMessage) isDatum()       {}
func (FriendSyncMessage) isSyncMessage() {}
func (m FriendSyncMessage) TypeChain() []reflect.Type { return syncChain(m) }

// GroupSyncMessage mirrors an outbound group message.
type GroupSyncMessage struct {
	MessageSubject Group        `json:"subject"`
	MessageChain_  MessageChain `json:"messageChain"`
}

func (GroupSyncMessage) isDatum()       {}
func (GroupSyncMessage) isSyncMessage() {}
func (m GroupSyncMessage) TypeChain() []reflect.Type { return syncChain(m) }

// TempSyncMessage mirrors an outbound temp message; the group is reached
// through the member's Group field.
type TempSyncMessage struct {
	MessageSubject Member       `json:"subject"`
	MessageChain_  MessageChain `json:"messageChain"`
}

func (TempSyncMessage) isDatum()       {}
func (TempSyncMessage) isSyncMessage() {}
func (m TempSyncMessage) TypeChain() []reflect.Type { return syncChain(m) }

// StrangerSyncMessage mirrors an outbound message to a non-friend account.
type StrangerSyncMessage struct {
	MessageSubject Friend       `json:"subject"`
	MessageChain_  MessageChain `json:"messageChain"`
}

func (StrangerSyncMessage) isDatum()       {}
func (StrangerSyncMessage) isSyncMessage() {}
func (m StrangerSyncMessage) TypeChain() []reflect.Type { return syncChain(m) }
