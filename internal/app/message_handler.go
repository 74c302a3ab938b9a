package app

import (
	"net/http"

	"chatapp/internal/service"
	"chatapp/internal/util"
	"chatapp/internal/websocket"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
	wsHub          *websocket.Hub
}

func NewMessageHandler(messageService service.MessageService, wsHub *websocket.Hub) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		wsHub:          wsHub,
	}
}

type sendMessageRequest struct {
	ReceiverID  string `json:"receiver_id" binding:"required"`
	MessageType string `json:"message_type"`
	Text        string `json:"text"`
	FileURL     string `json:"file_url"`
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	FileType    string `json:"file_type"`
}

// SendMessage handles sending a message to another user
// POST /api/v1/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messageService.SendMessage(userID.(string), service.SendMessageInput{
		ReceiverID:  req.ReceiverID,
		MessageType: req.MessageType,
		Text:        req.Text,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		FileType:    req.FileType,
	})
	if err != nil {
		util.RespondError(c, err)
		return
	}

	// Realtime push so open conversations update without polling
	if h.wsHub != nil && h.wsHub.IsOnline(msg.ReceiverID) {
		h.wsHub.Send(msg.ReceiverID, "chat_message", gin.H{
			"message": msg,
		})
	}

	util.SuccessResponse(c, http.StatusCreated, "Message sent", gin.H{"message": msg})
}

// GetConversation handles listing all messages with another user
// GET /api/v1/messages/:friendID
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	messages, err := h.messageService.GetConversation(userID.(string), c.Param("friendID"))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Messages retrieved successfully", gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// MarkDelivered handles marking a message addressed to the user as delivered
// POST /api/v1/messages/:id/delivered
func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.messageService.MarkDelivered(c.Param("id"), userID.(string)); err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Message marked as delivered", nil)
}

// MarkRead handles marking a message addressed to the user as read
// POST /api/v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.messageService.MarkRead(c.Param("id"), userID.(string)); err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Message marked as read", nil)
}

// GetUnreadCount handles counting unread messages for the current user
// GET /api/v1/messages/unread/count
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	count, err := h.messageService.GetUnreadCount(userID.(string))
	if err != nil {
		util.RespondError(c, err)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Unread count retrieved successfully", gin.H{"count": count})
}
