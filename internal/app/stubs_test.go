package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatapp/internal/model"
	"chatapp/internal/service"
	"chatapp/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Stub services let the handler tests pin down status-code mapping and
// request parsing without a database behind them.

type stubAuthService struct {
	registerFn func(service.RegisterRequest) (*service.AuthResponse, error)
	loginFn    func(service.LoginRequest) (*service.AuthResponse, error)
}

func (s *stubAuthService) Register(req service.RegisterRequest) (*service.AuthResponse, error) {
	return s.registerFn(req)
}

func (s *stubAuthService) Login(req service.LoginRequest) (*service.AuthResponse, error) {
	return s.loginFn(req)
}

func (s *stubAuthService) GetMe(userID string) (*model.PublicProfile, error) {
	return nil, nil
}

func (s *stubAuthService) SearchUsers(keyword string, limit, offset int) ([]model.PublicProfile, error) {
	return nil, nil
}

func (s *stubAuthService) UpdateAvatar(userID, avatarURL string) error { return nil }

func (s *stubAuthService) UpdateStatus(userID, status string) error { return nil }

type stubFriendshipService struct {
	sendRequestFn func(senderID, receiverUsername string) (*model.PublicProfile, error)
	friends       []*model.Friend
	friendsErr    error
}

func (s *stubFriendshipService) SendFriendRequest(senderID, receiverUsername string) (*model.PublicProfile, error) {
	return s.sendRequestFn(senderID, receiverUsername)
}

func (s *stubFriendshipService) AcceptFriendRequest(requestID, userID string) error { return nil }

func (s *stubFriendshipService) RejectFriendRequest(requestID, userID string) error { return nil }

func (s *stubFriendshipService) Unfriend(userID, friendID string) error { return nil }

func (s *stubFriendshipService) GetFriends(userID string) ([]*model.Friend, error) {
	return s.friends, s.friendsErr
}

func (s *stubFriendshipService) GetPendingRequests(userID string) ([]*model.FriendRequest, error) {
	return nil, nil
}

type stubMessageService struct {
	sendFn         func(senderID string, in service.SendMessageInput) (*model.Message, error)
	deliveredCalls [][2]string
	readCalls      [][2]string
}

func (s *stubMessageService) SendMessage(senderID string, in service.SendMessageInput) (*model.Message, error) {
	return s.sendFn(senderID, in)
}

func (s *stubMessageService) MarkDelivered(messageID, receiverID string) error {
	s.deliveredCalls = append(s.deliveredCalls, [2]string{messageID, receiverID})
	return nil
}

func (s *stubMessageService) MarkRead(messageID, receiverID string) error {
	s.readCalls = append(s.readCalls, [2]string{messageID, receiverID})
	return nil
}

func (s *stubMessageService) GetConversation(userID, friendID string) ([]*model.Message, error) {
	return nil, nil
}

func (s *stubMessageService) GetUnreadCount(userID string) (int64, error) { return 0, nil }

type stubPresence struct {
	online map[string]bool
}

func (s *stubPresence) IsOnline(userID string) bool { return s.online[userID] }

func (s *stubPresence) GetOnlineUserIDs() []string {
	ids := make([]string, 0, len(s.online))
	for id := range s.online {
		ids = append(ids, id)
	}
	return ids
}

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) util.Response {
	t.Helper()
	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
