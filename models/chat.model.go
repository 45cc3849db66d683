package models

import "gorm.io/gorm"

// Conversation is a direct-message thread between two users. ParticipantA
// is always the lower user id so a pair maps to exactly one row.
type Conversation struct {
	gorm.Model
	ParticipantA uint `json:"participant_a" gorm:"index;not null;uniqueIndex:uq_conversation,priority:1"`
	ParticipantB uint `json:"participant_b" gorm:"index;not null;uniqueIndex:uq_conversation,priority:2"`
	IsDeleted    bool `json:"-" gorm:"default:false"`
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the counterpart of userID in the conversation.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// ChatMessage is the durable record behind the realtime channel. Delivery
// over the websocket is best effort; the row is the source of truth.
type ChatMessage struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint   `json:"sender_id" gorm:"index;not null"`
	Content        string `json:"content" gorm:"type:text"`
	IsRead         bool   `json:"is_read" gorm:"default:false"`
	IsDeleted      bool   `json:"-" gorm:"default:false"`
}
