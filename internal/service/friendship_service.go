package service

import (
	"errors"
	"fmt"

	"chatapp/internal/model"
	"chatapp/internal/repository"
	"chatapp/internal/util"

	"gorm.io/gorm"
)

type FriendshipService interface {
	SendFriendRequest(senderID, receiverUsername string) (*model.PublicProfile, error)
	AcceptFriendRequest(requestID, userID string) error
	RejectFriendRequest(requestID, userID string) error
	Unfriend(userID, friendID string) error
	GetFriends(userID string) ([]*model.Friend, error)
	GetPendingRequests(userID string) ([]*model.FriendRequest, error)
}

type friendshipService struct {
	requestRepo    repository.FriendRequestRepository
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	notifService   NotificationService
}

func NewFriendshipService(
	requestRepo repository.FriendRequestRepository,
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifService NotificationService,
) FriendshipService {
	return &friendshipService{
		requestRepo:    requestRepo,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		notifService:   notifService,
	}
}

// SendFriendRequest sends a friend request to the user named by
// receiverUsername and returns the receiver's public profile
func (s *friendshipService) SendFriendRequest(senderID, receiverUsername string) (*model.PublicProfile, error) {
	receiver, err := s.userRepo.FindByUsername(receiverUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: no user named %s", util.ErrNotFound, receiverUsername)
	}

	if senderID == receiver.ID {
		return nil, fmt.Errorf("%w: cannot send a friend request to yourself", util.ErrInvalidInput)
	}

	if _, err := s.requestRepo.FindBetween(senderID, receiver.ID); err == nil {
		return nil, fmt.Errorf("%w: a friend request already exists between these users", util.ErrConflict)
	}

	alreadyFriends, err := s.friendshipRepo.Exists(senderID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if alreadyFriends {
		return nil, fmt.Errorf("%w: already friends with this user", util.ErrConflict)
	}

	request := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Status:     model.FriendRequestStatusPending,
	}

	if err := s.requestRepo.Create(request); err != nil {
		// The unique pair index catches requests that raced past the check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a friend request already exists between these users", util.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	// Notify the receiver (async, non-blocking)
	go func() {
		sender, err := s.userRepo.FindByID(senderID)
		if err != nil {
			return
		}
		s.notifService.SendFriendRequestNotification(receiver.ID, sender.FullName)
	}()

	profile := receiver.Public()
	return &profile, nil
}

// AcceptFriendRequest accepts a pending request addressed to userID. The
// mirrored friendship rows and the status flip are one transaction inside
// the repository.
func (s *friendshipService) AcceptFriendRequest(requestID, userID string) error {
	request, err := s.requestRepo.Accept(requestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: friend request not found", util.ErrNotFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: already friends with this user", util.ErrConflict)
		}
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	// Notify the original sender (async)
	go func() {
		s.notifService.SendFriendAcceptedNotification(request.SenderID, request.Receiver.FullName)
	}()

	return nil
}

// RejectFriendRequest rejects a pending request addressed to userID
func (s *friendshipService) RejectFriendRequest(requestID, userID string) error {
	affected, err := s.requestRepo.Reject(requestID, userID)
	if err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: friend request not found", util.ErrNotFound)
	}
	return nil
}

// Unfriend removes the friendship in both directions. Unfriending someone
// who is not a friend is a no-op.
func (s *friendshipService) Unfriend(userID, friendID string) error {
	return s.friendshipRepo.DeletePair(userID, friendID)
}

// GetFriends returns a user's friends ordered by display name
func (s *friendshipService) GetFriends(userID string) ([]*model.Friend, error) {
	return s.friendshipRepo.FindFriends(userID)
}

// GetPendingRequests returns pending requests addressed to userID, newest
// first
func (s *friendshipService) GetPendingRequests(userID string) ([]*model.FriendRequest, error) {
	return s.requestRepo.FindPendingByReceiverID(userID)
}
