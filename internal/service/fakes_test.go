package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"chatapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They reproduce the storage-layer contracts
// the services rely on: unique-pair constraints surface as
// gorm.ErrDuplicatedKey, missing rows as gorm.ErrRecordNotFound, and the
// guarded mark updates report affected row counts.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Status == "" {
		user.Status = model.DefaultUserStatus
	}
	if user.AvatarURL == "" {
		user.AvatarURL = model.DefaultAvatarURL
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) SearchUsers(keyword string, limit, offset int) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kw := strings.ToLower(keyword)
	var out []model.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.FullName), kw) ||
			strings.Contains(strings.ToLower(u.Username), kw) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateAvatar(userID, avatarURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.AvatarURL = avatarURL
	}
	return nil
}

func (f *fakeUserRepo) UpdateStatus(userID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.Status = status
	}
	return nil
}

type fakeFriendshipRepo struct {
	mu    sync.Mutex
	rows  []*model.Friendship
	users *fakeUserRepo
}

func newFakeFriendshipRepo(users *fakeUserRepo) *fakeFriendshipRepo {
	return &fakeFriendshipRepo{users: users}
}

func (f *fakeFriendshipRepo) Exists(userID, friendID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existsLocked(userID, friendID), nil
}

func (f *fakeFriendshipRepo) existsLocked(userID, friendID string) bool {
	for _, row := range f.rows {
		if (row.UserID == userID && row.FriendID == friendID) ||
			(row.UserID == friendID && row.FriendID == userID) {
			return true
		}
	}
	return false
}

func (f *fakeFriendshipRepo) FindFriends(userID string) ([]*model.Friend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var friends []*model.Friend
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		u, ok := f.users.users[row.FriendID]
		if !ok {
			continue
		}
		friends = append(friends, &model.Friend{
			ID:           u.ID,
			Username:     u.Username,
			FullName:     u.FullName,
			Status:       u.Status,
			AvatarURL:    u.AvatarURL,
			FriendsSince: row.CreatedAt,
		})
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].FullName < friends[j].FullName })
	return friends, nil
}

func (f *fakeFriendshipRepo) DeletePair(userID, friendID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if (row.UserID == userID && row.FriendID == friendID) ||
			(row.UserID == friendID && row.FriendID == userID) {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

func (f *fakeFriendshipRepo) addPair(userID, friendID string) {
	now := time.Now()
	f.rows = append(f.rows,
		&model.Friendship{ID: uuid.New().String(), UserID: userID, FriendID: friendID, CreatedAt: now},
		&model.Friendship{ID: uuid.New().String(), UserID: friendID, FriendID: userID, CreatedAt: now},
	)
}

type fakeFriendRequestRepo struct {
	mu          sync.Mutex
	requests    []*model.FriendRequest
	users       *fakeUserRepo
	friendships *fakeFriendshipRepo
}

func newFakeFriendRequestRepo(users *fakeUserRepo, friendships *fakeFriendshipRepo) *fakeFriendRequestRepo {
	return &fakeFriendRequestRepo{users: users, friendships: friendships}
}

func (f *fakeFriendRequestRepo) Create(request *model.FriendRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.SenderID == request.SenderID && r.ReceiverID == request.ReceiverID {
			return gorm.ErrDuplicatedKey
		}
	}
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.CreatedAt = time.Now()
	cp := *request
	f.requests = append(f.requests, &cp)
	return nil
}

func (f *fakeFriendRequestRepo) FindBetween(userID, otherID string) (*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if (r.SenderID == userID && r.ReceiverID == otherID) ||
			(r.SenderID == otherID && r.ReceiverID == userID) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFriendRequestRepo) FindPendingByReceiverID(receiverID string) ([]*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.FriendRequest
	for i := len(f.requests) - 1; i >= 0; i-- {
		r := f.requests[i]
		if r.ReceiverID == receiverID && r.Status == model.FriendRequestStatusPending {
			cp := *r
			if sender, ok := f.users.users[r.SenderID]; ok {
				cp.Sender = *sender
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeFriendRequestRepo) Accept(requestID, receiverID string) (*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ID != requestID || r.ReceiverID != receiverID || r.Status != model.FriendRequestStatusPending {
			continue
		}

		f.friendships.mu.Lock()
		if f.friendships.existsLocked(r.SenderID, r.ReceiverID) {
			f.friendships.mu.Unlock()
			return nil, gorm.ErrDuplicatedKey
		}
		f.friendships.addPair(r.SenderID, r.ReceiverID)
		f.friendships.mu.Unlock()

		r.Status = model.FriendRequestStatusAccepted
		cp := *r
		if sender, ok := f.users.users[r.SenderID]; ok {
			cp.Sender = *sender
		}
		if receiver, ok := f.users.users[r.ReceiverID]; ok {
			cp.Receiver = *receiver
		}
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFriendRequestRepo) Reject(requestID, receiverID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ID == requestID && r.ReceiverID == receiverID && r.Status == model.FriendRequestStatusPending {
			r.Status = model.FriendRequestStatusRejected
			return 1, nil
		}
	}
	return 0, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*model.Message
	users    *fakeUserRepo
}

func newFakeMessageRepo(users *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{users: users}
}

func (f *fakeMessageRepo) Create(msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = time.Now()
	cp := *msg
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepo) FindByID(id string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			if u, ok := f.users.users[cp.SenderID]; ok {
				cp.Sender = *u
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) GetConversation(userID, friendID string) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == friendID) ||
			(m.SenderID == friendID && m.ReceiverID == userID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkDelivered(messageID, receiverID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == messageID && m.ReceiverID == receiverID && m.DeliveredAt == nil {
			now := time.Now()
			m.DeliveredAt = &now
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeMessageRepo) MarkRead(messageID, receiverID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == messageID && m.ReceiverID == receiverID && m.ReadAt == nil {
			now := time.Now()
			m.ReadAt = &now
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeMessageRepo) CountUnread(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.messages {
		if m.ReceiverID == userID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(notification *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()
	cp := *notification
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeNotificationRepo) FindByUserID(userID string, limit int) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Notification
	for i := len(f.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if f.notifications[i].UserID == userID {
			cp := *f.notifications[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnreadByUserID(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}
