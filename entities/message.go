package entities

import "reflect"

// Message is the common interface implemented by every concrete message
// variant. It is also a router dispatch type in its own right: a handler
// registered for Message matches any message, while a handler registered
// for a concrete variant only matches that variant.
type Message interface {
	Datum
	isMessage()
	Sender() any
	Chain() MessageChain
}

var messageInterfaceType = reflect.TypeOf((*Message)(nil)).Elem()

// IsMessageType reports whether t is the Message interface itself or a
// concrete type implementing it — used by dispatch to classify a handler
// declared against a ReceiveContext as a message handler.
func IsMessageType(t reflect.Type) bool {
	return t == messageInterfaceType || t.Implements(messageInterfaceType)
}

// FriendMessage is a private message from a Friend.
type FriendMessage struct {
	MessageSender Friend       `json:"sender"`
	MessageChain_ MessageChain `json:"messageChain"`
}

func (FriendMessage) isDatum()   {}
func (FriendMessage) isMessage() {}
func (m FriendMessage) Sender() any            { return m.MessageSender }
func (m FriendMessage) Chain() MessageChain    { return m.MessageChain_ }
func (m FriendMessage) TypeChain() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(m), messageInterfaceType}
}

// GroupMessage is a message posted to a Group.
type GroupMessage struct {
	MessageSender Member       `json:"sender"`
	MessageChain_ MessageChain `json:"messageChain"`
}

func (GroupMessage) isDatum()   {}
func (GroupMessage) isMessage() {}
func (m GroupMessage) Sender() any            { return m.MessageSender }
func (m GroupMessage) Chain() MessageChain    { return m.MessageChain_ }
func (m GroupMessage) TypeChain() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(m), messageInterfaceType}
}

// TempMessage is a one-off message to a group member outside the group
// context (a "temp chat").
type TempMessage struct {
	MessageSender Member       `json:"sender"`
	MessageChain_ MessageChain `json:"messageChain"`
}

func (TempMessage) isDatum()   {}
func (TempMessage) isMessage() {}
func (m TempMessage) Sender() any            { return m.MessageSender }
func (m TempMessage) Chain() MessageChain    { return m.MessageChain_ }
func (m TempMessage) TypeChain() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(m), messageInterfaceType}
}

// StrangerMessage is a message from an account outside the bot's friend
// list.
type StrangerMessage struct {
	MessageSender Friend       `json:"sender"`
	MessageChain_ MessageChain `json:"messageChain"`
}

func (StrangerMessage) isDatum()   {}
func (StrangerMessage) isMessage() {}
func (m StrangerMessage) Sender() any            { return m.MessageSender }
func (m StrangerMessage) Chain() MessageChain    { return m.MessageChain_ }
func (m StrangerMessage) TypeChain() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(m), messageInterfaceType}
}

// OtherClientMessage originates from another client of the bot account
// (not to be confused with a sync message, which mirrors an outbound
// send rather than an inbound receive).
type OtherClientMessage struct {
	MessageSender Client       `json:"sender"`
	MessageChain_ MessageChain `json:"messageChain"`
}

func (OtherClientMessage) isDatum()   {}
func (OtherClientMessage) isMessage() {}
func (m OtherClientMessage) Sender() any            { return m.MessageSender }
func (m OtherClientMessage) Chain() MessageChain    { return m.MessageChain_ }
func (m OtherClientMessage) TypeChain() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(m), messageInterfaceType}
}
