package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"chatapp/internal/model"
	"chatapp/internal/util"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUserID(userID string, limit int) ([]*model.Notification, error)
	CountUnreadByUserID(userID string) (int64, error)
	MarkAsRead(id, userID string) (int64, error)
	MarkAllAsRead(userID string) (int64, error)
}

type notificationRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	notificationListCachePrefix  = "notification:user:"
	notificationCountCachePrefix = "notification:count:"
	notificationCacheExpiry      = 10 * time.Minute
)

func NewNotificationRepository(db *gorm.DB, redis *util.RedisClient) NotificationRepository {
	return &notificationRepository{
		db:    db,
		redis: redis,
	}
}

// Create appends a notification
func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateUserCache(notification.UserID)
	}

	return nil
}

// FindByUserID finds the newest notifications for a user. The cache key
// carries the limit so different page sizes never serve each other's list.
func (r *notificationRepository) FindByUserID(userID string, limit int) ([]*model.Notification, error) {
	cacheKey := fmt.Sprintf("%s%s:%d", notificationListCachePrefix, userID, limit)
	if r.redis != nil {
		cached, err := r.getListFromCache(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var notifications []*model.Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheNotificationList(cacheKey, notifications)
	}

	return notifications, nil
}

// CountUnreadByUserID counts unread notifications for a user
func (r *notificationRepository) CountUnreadByUserID(userID string) (int64, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(notificationCountCachePrefix + userID)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(notificationCountCachePrefix+userID, fmt.Sprintf("%d", count), notificationCacheExpiry)
	}

	return count, nil
}

// MarkAsRead marks a notification as read, only if it belongs to userID.
// Returns the number of rows affected; zero on a mismatch.
func (r *notificationRepository) MarkAsRead(id, userID string) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 && r.redis != nil {
		r.invalidateUserCache(userID)
	}

	return result.RowsAffected, nil
}

// MarkAllAsRead marks every unread notification for a user as read and
// returns the count affected
func (r *notificationRepository) MarkAllAsRead(userID string) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	if r.redis != nil {
		r.invalidateUserCache(userID)
	}

	return result.RowsAffected, nil
}

// Cache helpers
func (r *notificationRepository) cacheNotificationList(key string, notifications []*model.Notification) {
	notificationsJSON, err := json.Marshal(notifications)
	if err != nil {
		return
	}
	r.redis.Set(key, string(notificationsJSON), notificationCacheExpiry)
}

func (r *notificationRepository) getListFromCache(key string) ([]*model.Notification, error) {
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var notifications []*model.Notification
	if err := json.Unmarshal([]byte(cached), &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) invalidateUserCache(userID string) {
	// List entries are keyed per limit, drop them all
	r.redis.DeletePattern(notificationListCachePrefix + userID + ":*")
	r.redis.Delete(notificationCountCachePrefix + userID)
}
