package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"chatapp/internal/model"
	"chatapp/internal/service"
	"chatapp/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSendMessageHandler(t *testing.T) {
	text := "hello"
	stub := &stubMessageService{
		sendFn: func(senderID string, in service.SendMessageInput) (*model.Message, error) {
			assert.Equal(t, "u1", senderID)
			assert.Equal(t, "u2", in.ReceiverID)
			return &model.Message{ID: "m1", SenderID: senderID, ReceiverID: in.ReceiverID, Text: &text}, nil
		},
	}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages",
		`{"receiver_id":"u2","text":"hello"}`)
	c.Set("userID", "u1")
	h.SendMessage(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestSendMessageHandler_EmptyText(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(senderID string, in service.SendMessageInput) (*model.Message, error) {
			return nil, fmt.Errorf("%w: text is required for text messages", util.ErrInvalidInput)
		},
	}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages",
		`{"receiver_id":"u2","text":"  "}`)
	c.Set("userID", "u1")
	h.SendMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
}

func TestSendMessageHandler_UnknownReceiver(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(senderID string, in service.SendMessageInput) (*model.Message, error) {
			return nil, fmt.Errorf("%w: receiver does not exist", util.ErrNotFound)
		},
	}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages",
		`{"receiver_id":"ghost","text":"hello"}`)
	c.Set("userID", "u1")
	h.SendMessage(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageHandler_MissingReceiver(t *testing.T) {
	called := false
	stub := &stubMessageService{
		sendFn: func(senderID string, in service.SendMessageInput) (*model.Message, error) {
			called = true
			return nil, nil
		},
	}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages", `{"text":"hello"}`)
	c.Set("userID", "u1")
	h.SendMessage(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestSendMessageHandler_StorageError(t *testing.T) {
	stub := &stubMessageService{
		sendFn: func(senderID string, in service.SendMessageInput) (*model.Message, error) {
			return nil, errors.New("pq: connection refused")
		},
	}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages",
		`{"receiver_id":"u2","text":"hello"}`)
	c.Set("userID", "u1")
	h.SendMessage(c)

	// Unrecognized errors map to 500 without leaking the driver message
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestMarkDeliveredHandler(t *testing.T) {
	stub := &stubMessageService{}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages/m1/delivered", "")
	c.Set("userID", "u2")
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	h.MarkDelivered(c)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.Len(t, stub.deliveredCalls, 1) {
		assert.Equal(t, [2]string{"m1", "u2"}, stub.deliveredCalls[0])
	}
}

func TestMarkReadHandler(t *testing.T) {
	stub := &stubMessageService{}
	h := NewMessageHandler(stub, nil)

	c, w := newTestContext(t, "POST", "/api/v1/messages/m1/read", "")
	c.Set("userID", "u2")
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	h.MarkRead(c)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.Len(t, stub.readCalls, 1) {
		assert.Equal(t, [2]string{"m1", "u2"}, stub.readCalls[0])
	}
}
