package repository

import (
	"encoding/json"
	"time"

	"chatapp/internal/model"
	"chatapp/internal/util"

	"gorm.io/gorm"
)

type FriendRequestRepository interface {
	Create(request *model.FriendRequest) error
	FindBetween(userID, otherID string) (*model.FriendRequest, error)
	FindPendingByReceiverID(receiverID string) ([]*model.FriendRequest, error)
	Accept(requestID, receiverID string) (*model.FriendRequest, error)
	Reject(requestID, receiverID string) (int64, error)
}

type friendRequestRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	pendingRequestsCachePrefix = "friend_requests:pending:"
	friendRequestCacheExpiry   = 15 * time.Minute
)

func NewFriendRequestRepository(db *gorm.DB, redis *util.RedisClient) FriendRequestRepository {
	return &friendRequestRepository{
		db:    db,
		redis: redis,
	}
}

// Create inserts a new pending friend request. The unique index on
// (sender_id, receiver_id) rejects duplicates even when two requests race
// past the existence check.
func (r *friendRequestRepository) Create(request *model.FriendRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidatePendingCache(request.ReceiverID)
	}

	return nil
}

// FindBetween finds a friend request between two users in either direction
func (r *friendRequestRepository) FindBetween(userID, otherID string) (*model.FriendRequest, error) {
	var request model.FriendRequest
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingByReceiverID finds pending friend requests addressed to a user,
// newest first
func (r *friendRequestRepository) FindPendingByReceiverID(receiverID string) ([]*model.FriendRequest, error) {
	if r.redis != nil {
		cached, err := r.getListFromCache(pendingRequestsCachePrefix + receiverID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var requests []*model.FriendRequest
	err := r.db.Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, model.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheRequestList(pendingRequestsCachePrefix+receiverID, requests)
	}

	return requests, nil
}

// Accept accepts a pending friend request addressed to receiverID. The two
// friendship rows and the status update are applied in one transaction so a
// failure can never leave the request accepted without the mirrored
// friendship existing. Returns gorm.ErrRecordNotFound if no matching
// pending request exists.
func (r *friendRequestRepository) Accept(requestID, receiverID string) (*model.FriendRequest, error) {
	var request model.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Sender").Preload("Receiver").
			Where("id = ? AND receiver_id = ? AND status = ?",
				requestID, receiverID, model.FriendRequestStatusPending).
			First(&request).Error; err != nil {
			return err
		}

		pair := []*model.Friendship{
			{UserID: request.SenderID, FriendID: request.ReceiverID},
			{UserID: request.ReceiverID, FriendID: request.SenderID},
		}
		if err := tx.Create(&pair).Error; err != nil {
			return err
		}

		return tx.Model(&model.FriendRequest{}).
			Where("id = ?", requestID).
			Update("status", model.FriendRequestStatusAccepted).Error
	})
	if err != nil {
		return nil, err
	}
	request.Status = model.FriendRequestStatusAccepted

	if r.redis != nil {
		r.invalidatePendingCache(request.ReceiverID)
		invalidateFriendsCache(r.redis, request.SenderID)
		invalidateFriendsCache(r.redis, request.ReceiverID)
	}

	return &request, nil
}

// Reject marks a pending request rejected. Returns the number of rows
// affected; zero means no pending request matched.
func (r *friendRequestRepository) Reject(requestID, receiverID string) (int64, error) {
	result := r.db.Model(&model.FriendRequest{}).
		Where("id = ? AND receiver_id = ? AND status = ?",
			requestID, receiverID, model.FriendRequestStatusPending).
		Update("status", model.FriendRequestStatusRejected)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 && r.redis != nil {
		r.invalidatePendingCache(receiverID)
	}

	return result.RowsAffected, nil
}

// Cache helpers
func (r *friendRequestRepository) cacheRequestList(key string, requests []*model.FriendRequest) {
	requestsJSON, err := json.Marshal(requests)
	if err != nil {
		return
	}
	r.redis.Set(key, string(requestsJSON), friendRequestCacheExpiry)
}

func (r *friendRequestRepository) getListFromCache(key string) ([]*model.FriendRequest, error) {
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var requests []*model.FriendRequest
	if err := json.Unmarshal([]byte(cached), &requests); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *friendRequestRepository) invalidatePendingCache(receiverID string) {
	r.redis.Delete(pendingRequestsCachePrefix + receiverID)
}
