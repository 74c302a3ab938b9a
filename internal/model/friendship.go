package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friendship is one directed edge of a mutual friendship. Accepting a
// friend request inserts both directions (A→B and B→A) in one transaction.
type Friendship struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_friendships_pair" json:"user_id"`
	FriendID  string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_friendships_pair" json:"friend_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User   User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Friend User `gorm:"foreignKey:FriendID;references:ID" json:"friend,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Friendship) TableName() string {
	return "friendships"
}

// Friend is the joined row returned when listing a user's friends:
// the friend's public profile plus when the friendship was established.
type Friend struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Status       string    `json:"status"`
	AvatarURL    string    `json:"avatar_url"`
	FriendsSince time.Time `json:"friends_since"`
}
