package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chatapp/internal/model"
	"chatapp/internal/repository"
	"chatapp/internal/util"
)

type NotificationService interface {
	SendFriendRequestNotification(receiverID, senderName string) error
	SendFriendAcceptedNotification(senderID, accepterName string) error
	SendNewMessageNotification(receiverID, messageType string) error
	GetNotifications(userID string) ([]*model.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(notificationID, userID string) error
	MarkAllAsRead(userID string) (int64, error)
	SetWSHub(hub interface {
		BroadcastToUser(string, map[string]interface{})
	})
}

// notificationListLimit caps how many notifications a single list call
// returns (newest first)
const notificationListLimit = 50

type notificationService struct {
	notifRepo repository.NotificationRepository
	rabbitMQ  *util.RabbitMQClient
	wsHub     interface {
		BroadcastToUser(string, map[string]interface{})
	}
}

// NotificationMessage is the payload published to RabbitMQ for async
// websocket delivery
type NotificationMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	NotificationQueueName  = "notification_queue"
	NotificationExchange   = "notification_exchange"
	NotificationRoutingKey = "notification"
)

func NewNotificationService(notifRepo repository.NotificationRepository, rabbitMQ *util.RabbitMQClient) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		rabbitMQ:  rabbitMQ,
	}
}

// SetWSHub sets the WebSocket hub used for realtime delivery when RabbitMQ
// is unavailable
func (s *notificationService) SetWSHub(hub interface {
	BroadcastToUser(string, map[string]interface{})
}) {
	s.wsHub = hub
}

// sendNotification persists the notification, then hands it to RabbitMQ
// for the worker to push over websocket. Without RabbitMQ it pushes
// directly. The DB row is the source of truth either way.
func (s *notificationService) sendNotification(userID, notifType, title, message string) error {
	notification := &model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		IsRead:  false,
	}

	if err := s.notifRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.rabbitMQ != nil {
		msg := NotificationMessage{
			ID:        notification.ID,
			UserID:    userID,
			Type:      notifType,
			Title:     title,
			Message:   message,
			Timestamp: time.Now(),
		}

		msgJSON, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		if err := s.rabbitMQ.Publish(NotificationExchange, NotificationRoutingKey, msgJSON); err != nil {
			log.Printf("Failed to publish notification to RabbitMQ: %v", err)
			// Notification is already saved; fall through to direct push
		} else {
			return nil
		}
	}

	if s.wsHub != nil {
		s.wsHub.BroadcastToUser(userID, map[string]interface{}{
			"id":         notification.ID,
			"user_id":    notification.UserID,
			"type":       notification.Type,
			"title":      notification.Title,
			"message":    notification.Message,
			"is_read":    notification.IsRead,
			"created_at": notification.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil
}

// SendFriendRequestNotification notifies a user of a new friend request
func (s *notificationService) SendFriendRequestNotification(receiverID, senderName string) error {
	return s.sendNotification(
		receiverID,
		model.NotificationTypeFriendRequest,
		"New Friend Request",
		fmt.Sprintf("You have a new friend request from %s", senderName),
	)
}

// SendFriendAcceptedNotification notifies the original sender that their
// request was accepted
func (s *notificationService) SendFriendAcceptedNotification(senderID, accepterName string) error {
	return s.sendNotification(
		senderID,
		model.NotificationTypeFriendAccepted,
		"Friend Request Accepted",
		fmt.Sprintf("%s accepted your friend request", accepterName),
	)
}

// SendNewMessageNotification notifies a user of an incoming message. The
// body distinguishes file messages from text without leaking content.
func (s *notificationService) SendNewMessageNotification(receiverID, messageType string) error {
	body := "You have a new message"
	if messageType != model.MessageTypeText {
		body = fmt.Sprintf("You have a new %s", messageType)
	}

	return s.sendNotification(
		receiverID,
		model.NotificationTypeMessage,
		"New Message",
		body,
	)
}

// GetNotifications returns a user's newest notifications
func (s *notificationService) GetNotifications(userID string) ([]*model.Notification, error) {
	return s.notifRepo.FindByUserID(userID, notificationListLimit)
}

// GetUnreadCount returns the unread notification count for a user
func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notifRepo.CountUnreadByUserID(userID)
}

// MarkAsRead marks a notification as read. Marking a notification that is
// not owned by userID is a silent no-op.
func (s *notificationService) MarkAsRead(notificationID, userID string) error {
	_, err := s.notifRepo.MarkAsRead(notificationID, userID)
	return err
}

// MarkAllAsRead marks all of a user's notifications as read and returns
// the count affected
func (s *notificationService) MarkAllAsRead(userID string) (int64, error) {
	return s.notifRepo.MarkAllAsRead(userID)
}
