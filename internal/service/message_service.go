package service

import (
	"fmt"
	"strings"

	"chatapp/internal/model"
	"chatapp/internal/repository"
	"chatapp/internal/util"
)

// SendMessageInput carries the payload of an outgoing message. Text
// messages use Text; every other type uses the file fields.
type SendMessageInput struct {
	ReceiverID  string
	MessageType string
	Text        string
	FileURL     string
	FileName    string
	FileSize    int64
	FileType    string
}

type MessageService interface {
	SendMessage(senderID string, in SendMessageInput) (*model.Message, error)
	MarkDelivered(messageID, receiverID string) error
	MarkRead(messageID, receiverID string) error
	GetConversation(userID, friendID string) ([]*model.Message, error)
	GetUnreadCount(userID string) (int64, error)
}

type messageService struct {
	messageRepo  repository.MessageRepository
	userRepo     repository.UserRepository
	notifService NotificationService
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifService NotificationService,
) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		notifService: notifService,
	}
}

// SendMessage validates the payload for its type, stores the message with
// no delivery timestamps, and notifies the receiver
func (s *messageService) SendMessage(senderID string, in SendMessageInput) (*model.Message, error) {
	messageType := in.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	if !model.IsValidMessageType(messageType) {
		return nil, fmt.Errorf("%w: unknown message type %q", util.ErrInvalidInput, messageType)
	}

	if _, err := s.userRepo.FindByID(in.ReceiverID); err != nil {
		return nil, fmt.Errorf("%w: receiver does not exist", util.ErrNotFound)
	}

	msg := &model.Message{
		SenderID:    senderID,
		ReceiverID:  in.ReceiverID,
		MessageType: messageType,
	}

	if messageType == model.MessageTypeText {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: text is required for text messages", util.ErrInvalidInput)
		}
		msg.Text = &text
	} else {
		if in.FileURL == "" {
			return nil, fmt.Errorf("%w: file URL is required for %s messages", util.ErrInvalidInput, messageType)
		}
		msg.FileURL = &in.FileURL
		if in.FileName != "" {
			msg.FileName = &in.FileName
		}
		if in.FileSize > 0 {
			msg.FileSize = &in.FileSize
		}
		if in.FileType != "" {
			msg.FileType = &in.FileType
		}
	}

	if err := s.messageRepo.Create(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	// Reload with the sender profile attached so the response and the
	// realtime push carry it. The bare row is the fallback.
	if full, err := s.messageRepo.FindByID(msg.ID); err == nil {
		msg = full
	}

	// Notify the receiver (async, non-blocking)
	go func() {
		s.notifService.SendNewMessageNotification(in.ReceiverID, messageType)
	}()

	return msg, nil
}

// MarkDelivered stamps delivered_at on a message. Calling it again, or for
// a message addressed to someone else, is a silent no-op.
func (s *messageService) MarkDelivered(messageID, receiverID string) error {
	_, err := s.messageRepo.MarkDelivered(messageID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to mark message delivered: %w", err)
	}
	return nil
}

// MarkRead stamps read_at with the same lenient contract as MarkDelivered
func (s *messageService) MarkRead(messageID, receiverID string) error {
	_, err := s.messageRepo.MarkRead(messageID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// GetConversation returns every message between two users, oldest first.
// Marking fetched messages as read is the caller's responsibility.
func (s *messageService) GetConversation(userID, friendID string) ([]*model.Message, error) {
	return s.messageRepo.GetConversation(userID, friendID)
}

// GetUnreadCount returns how many messages addressed to userID are unread
func (s *messageService) GetUnreadCount(userID string) (int64, error) {
	return s.messageRepo.CountUnread(userID)
}
