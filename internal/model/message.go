package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. Text messages carry Text;
// file messages carry the file metadata instead. DeliveredAt and ReadAt are
// set at most once each and never cleared.
type Message struct {
	ID          string     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SenderID    string     `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID  string     `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Text        *string    `gorm:"type:text" json:"text,omitempty"`
	MessageType string     `gorm:"type:varchar(20);default:'text';not null" json:"message_type"`
	FileURL     *string    `gorm:"type:text" json:"file_url,omitempty"`
	FileName    *string    `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileSize    *int64     `json:"file_size,omitempty"`
	FileType    *string    `gorm:"type:varchar(100)" json:"file_type,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DeliveredAt *time.Time `gorm:"type:timestamp" json:"delivered_at,omitempty"`
	ReadAt      *time.Time `gorm:"type:timestamp" json:"read_at,omitempty"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID" json:"receiver,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}

// Message type constants
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeVideo    = "video"
	MessageTypeAudio    = "audio"
	MessageTypeDocument = "document"
)

var messageTypes = map[string]bool{
	MessageTypeText:     true,
	MessageTypeImage:    true,
	MessageTypeVideo:    true,
	MessageTypeAudio:    true,
	MessageTypeDocument: true,
}

// IsValidMessageType reports whether t is a known message type
func IsValidMessageType(t string) bool {
	return messageTypes[t]
}
