package repository

import (
	"time"

	"chatapp/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(msg *model.Message) error
	FindByID(id string) (*model.Message, error)
	GetConversation(userID, friendID string) ([]*model.Message, error)
	MarkDelivered(messageID, receiverID string) (int64, error)
	MarkRead(messageID, receiverID string) (int64, error)
	CountUnread(userID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

func (r *messageRepository) FindByID(id string) (*model.Message, error) {
	var msg model.Message
	err := r.db.Preload("Sender").Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetConversation returns all messages between two users, oldest first.
// The result is the same whichever of the two users asks.
func (r *messageRepository) GetConversation(userID, friendID string) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, friendID, friendID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkDelivered stamps delivered_at on a message, only if the caller is the
// receiver and the stamp is still unset. A zero row count is not an error:
// the transition is idempotent and a receiver mismatch is silently ignored.
func (r *messageRepository) MarkDelivered(messageID, receiverID string) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("id = ? AND receiver_id = ? AND delivered_at IS NULL", messageID, receiverID).
		Update("delivered_at", time.Now())
	return result.RowsAffected, result.Error
}

// MarkRead stamps read_at with the same contract as MarkDelivered
func (r *messageRepository) MarkRead(messageID, receiverID string) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("id = ? AND receiver_id = ? AND read_at IS NULL", messageID, receiverID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

func (r *messageRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
