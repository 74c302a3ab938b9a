package repository

import (
	"encoding/json"
	"time"

	"chatapp/internal/model"
	"chatapp/internal/util"

	"gorm.io/gorm"
)

type FriendshipRepository interface {
	Exists(userID, friendID string) (bool, error)
	FindFriends(userID string) ([]*model.Friend, error)
	DeletePair(userID, friendID string) error
}

type friendshipRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	friendsCachePrefix    = "friends:"
	friendshipCacheExpiry = 15 * time.Minute
)

func NewFriendshipRepository(db *gorm.DB, redis *util.RedisClient) FriendshipRepository {
	return &friendshipRepository{
		db:    db,
		redis: redis,
	}
}

// Exists reports whether a friendship exists between two users, checked in
// both directions since a mutual friendship is stored as two directed rows
func (r *friendshipRepository) Exists(userID, friendID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindFriends returns a user's friends joined with their public profiles,
// ordered by display name
func (r *friendshipRepository) FindFriends(userID string) ([]*model.Friend, error) {
	if r.redis != nil {
		cached, err := r.getFriendsFromCache(friendsCachePrefix + userID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var friends []*model.Friend
	err := r.db.Table("friendships").
		Select("users.id, users.username, users.full_name, users.status, users.avatar_url, friendships.created_at AS friends_since").
		Joins("JOIN users ON users.id = friendships.friend_id").
		Where("friendships.user_id = ?", userID).
		Order("users.full_name ASC").
		Scan(&friends).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.cacheFriends(friendsCachePrefix+userID, friends)
	}

	return friends, nil
}

// DeletePair removes both directed rows of a friendship. Deleting a pair
// that does not exist is a no-op, not an error.
func (r *friendshipRepository) DeletePair(userID, friendID string) error {
	result := r.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&model.Friendship{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 && r.redis != nil {
		invalidateFriendsCache(r.redis, userID)
		invalidateFriendsCache(r.redis, friendID)
	}

	return nil
}

// Cache helpers
func (r *friendshipRepository) cacheFriends(key string, friends []*model.Friend) {
	friendsJSON, err := json.Marshal(friends)
	if err != nil {
		return
	}
	r.redis.Set(key, string(friendsJSON), friendshipCacheExpiry)
}

func (r *friendshipRepository) getFriendsFromCache(key string) ([]*model.Friend, error) {
	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var friends []*model.Friend
	if err := json.Unmarshal([]byte(cached), &friends); err != nil {
		return nil, err
	}

	return friends, nil
}

// invalidateFriendsCache drops a user's cached friends list. Shared with
// the friend request repository, whose Accept creates friendship rows.
func invalidateFriendsCache(redis *util.RedisClient, userID string) {
	redis.Delete(friendsCachePrefix + userID)
}
