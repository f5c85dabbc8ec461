// Package model defines the domain types used across the application.
package model

import "errors"

// ChatType is the kind of conversation a chat represents.
type ChatType string

// Chat types reported by the Bot API.
const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// Chat identifies a conversation and its kind.
type Chat struct {
	ID   int64
	Type ChatType
}

// IsDirect reports whether the chat is a one-to-one conversation.
func (c Chat) IsDirect() bool {
	return c.Type == ChatPrivate
}

// MemberStatus is the role of a member inside a chat.
type MemberStatus string

// Member statuses reported by the Bot API.
const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsOperator reports whether the status grants administrative rights.
func (s MemberStatus) IsOperator() bool {
	return s == StatusCreator || s == StatusAdministrator
}

// Member describes a user's membership in a chat.
type Member struct {
	Status            MemberStatus
	CanDeleteMessages bool
}

// Message is an inbound chat message. HasText is false for non-text events
// such as stickers, photos without captions or service messages.
type Message struct {
	Chat      Chat
	UserID    int64
	MessageID int
	Text      string
	HasText   bool
}

// Transport errors the moderation engine treats as benign delete failures.
var (
	ErrMessageNotFound     = errors.New("message to delete not found")
	ErrMessageNotDeletable = errors.New("message can't be deleted")
)
