package app

import (
	"net/http"

	"chatapp/internal/model"
	"chatapp/internal/service"
	"chatapp/internal/util"

	"github.com/gin-gonic/gin"
)

// Presence reports which users currently hold an open websocket connection
type Presence interface {
	IsOnline(userID string) bool
	GetOnlineUserIDs() []string
}

type FriendshipHandler struct {
	friendshipService service.FriendshipService
	presence          Presence
}

func NewFriendshipHandler(friendshipService service.FriendshipService, presence Presence) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipService: friendshipService,
		presence:          presence,
	}
}

// SendFriendRequest handles sending a friend request by username
// POST /api/v1/friendships/request
func (h *FriendshipHandler) SendFriendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	receiver, err := h.friendshipService.SendFriendRequest(userID.(string), req.Username)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Friend request sent", gin.H{"receiver": receiver})
}

// AcceptFriendRequest handles accepting a pending friend request
// POST /api/v1/friendships/:id/accept
func (h *FriendshipHandler) AcceptFriendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.friendshipService.AcceptFriendRequest(c.Param("id"), userID.(string)); err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request accepted", nil)
}

// RejectFriendRequest handles rejecting a pending friend request
// POST /api/v1/friendships/:id/reject
func (h *FriendshipHandler) RejectFriendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.friendshipService.RejectFriendRequest(c.Param("id"), userID.(string)); err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend request rejected", nil)
}

// Unfriend handles removing an existing friendship
// DELETE /api/v1/friendships/friends/:friendID
func (h *FriendshipHandler) Unfriend(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.friendshipService.Unfriend(userID.(string), c.Param("friendID")); err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friend removed", nil)
}

// GetFriends handles listing the current user's friends
// GET /api/v1/friendships/friends
func (h *FriendshipHandler) GetFriends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	friends, err := h.friendshipService.GetFriends(userID.(string))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Friends retrieved successfully", gin.H{
		"friends": friends,
		"total":   len(friends),
	})
}

// GetOnlineFriends handles listing which of the user's friends are connected
// GET /api/v1/friendships/online
func (h *FriendshipHandler) GetOnlineFriends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	friends, err := h.friendshipService.GetFriends(userID.(string))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	online := make([]*model.Friend, 0)
	if h.presence != nil {
		connected := make(map[string]bool)
		for _, id := range h.presence.GetOnlineUserIDs() {
			connected[id] = true
		}
		for _, friend := range friends {
			if connected[friend.ID] {
				online = append(online, friend)
			}
		}
	}

	util.SuccessResponse(c, http.StatusOK, "Online friends retrieved successfully", gin.H{
		"friends": online,
		"total":   len(online),
	})
}

// GetPendingRequests handles listing friend requests awaiting the user's answer
// GET /api/v1/friendships/pending
func (h *FriendshipHandler) GetPendingRequests(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	requests, err := h.friendshipService.GetPendingRequests(userID.(string))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Pending requests retrieved successfully", gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}
