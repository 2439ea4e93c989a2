package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mahto/internal/domain/entity"
	"mahto/pkg/errors"
)

// In-memory fakes backing the usecase tests. They mirror the Firestore
// adapters' observable behavior: NotFound app errors, newest-first ordering,
// and summary updates applied together with the message write.

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[string]*entity.User
	getByIDCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDCalls++
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		user = &entity.User{ID: id}
		r.users[id] = user
	}
	for key, value := range fields {
		s, _ := value.(string)
		switch key {
		case "name":
			user.Name = s
		case "phone":
			user.Phone = s
		case "address":
			user.Address = s
		case "image":
			user.Image = s
		case "updatedAt":
			user.UpdatedAt = s
		}
	}
	return nil
}

func (r *fakeUserRepo) Watch(ctx context.Context, id string) (<-chan *entity.User, <-chan error) {
	updates := make(chan *entity.User, 1)
	errs := make(chan error, 1)

	if user, err := r.GetByID(ctx, id); err == nil {
		updates <- user
	}

	go func() {
		<-ctx.Done()
		close(updates)
		close(errs)
	}()

	return updates, errs
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	nextMessageID int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (r *fakeConversationRepo) CreateIfAbsent(ctx context.Context, conversation *entity.Conversation) (*entity.Conversation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.conversations[conversation.ID]; ok {
		clone := *existing
		return &clone, false, nil
	}
	clone := *conversation
	clone.LastMessageTimestamp = time.Now()
	r.conversations[conversation.ID] = &clone
	result := clone
	return &result, true, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	clone := *conversation
	return &clone, nil
}

func (r *fakeConversationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			clone := *conversation
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastMessageTimestamp.After(result[j].LastMessageTimestamp)
	})

	total := int64(len(result))
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *fakeConversationRepo) Watch(ctx context.Context, userID string) (<-chan []*entity.Conversation, <-chan error) {
	updates := make(chan []*entity.Conversation, 1)
	errs := make(chan error, 1)

	if conversations, _, err := r.ListByUser(ctx, userID, 0, 0); err == nil {
		updates <- conversations
	}

	go func() {
		<-ctx.Done()
		close(updates)
		close(errs)
	}()

	return updates, errs
}

func (r *fakeConversationRepo) AppendMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}

	r.nextMessageID++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", r.nextMessageID)
	}
	message.CreatedAt = time.Now().Add(time.Duration(r.nextMessageID) * time.Millisecond)

	clone := *message
	r.messages[conversationID] = append(r.messages[conversationID], &clone)

	conversation.LastMessage = message.Text
	conversation.LastMessageTimestamp = message.CreatedAt
	conversation.UnreadCount++

	return nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.messages[conversationID]
	result := make([]*entity.Message, 0, len(stored))
	for _, message := range stored {
		clone := *message
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	total := int64(len(result))
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *fakeConversationRepo) WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, <-chan error) {
	updates := make(chan []*entity.Message, 1)
	errs := make(chan error, 1)

	if messages, _, err := r.ListMessages(ctx, conversationID, 0, 0); err == nil {
		updates <- messages
	}

	go func() {
		<-ctx.Done()
		close(updates)
		close(errs)
	}()

	return updates, errs
}

func (r *fakeConversationRepo) MarkRead(ctx context.Context, conversationID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}

	for _, message := range r.messages[conversationID] {
		if message.SenderID != readerID {
			message.Read = true
		}
	}
	conversation.UnreadCount = 0

	return nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[string]*entity.Property
	nextID     int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: make(map[string]*entity.Property)}
}

func (r *fakePropertyRepo) Create(ctx context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if property.ID == "" {
		property.ID = fmt.Sprintf("prop-%d", r.nextID)
	}
	property.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	property.UpdatedAt = property.CreatedAt
	clone := *property
	r.properties[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	property, ok := r.properties[id]
	if !ok {
		return nil, errors.NotFound("Property", nil)
	}
	clone := *property
	return &clone, nil
}

func matchesFilter(property *entity.Property, filter map[string]interface{}) bool {
	for key, value := range filter {
		s, _ := value.(string)
		switch key {
		case "state":
			if property.State != s {
				return false
			}
		case "district":
			if property.District != s {
				return false
			}
		case "type":
			if string(property.Type) != s {
				return false
			}
		case "listingType":
			if string(property.ListingType) != s {
				return false
			}
		case "userId":
			if property.OwnerID != s {
				return false
			}
		}
	}
	return true
}

func (r *fakePropertyRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Property
	for _, property := range r.properties {
		if matchesFilter(property, filter) {
			clone := *property
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	total := int64(len(result))
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *fakePropertyRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Property, int64, error) {
	return r.List(ctx, map[string]interface{}{"userId": ownerID}, limit, offset)
}

func (r *fakePropertyRepo) Update(ctx context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[property.ID]; !ok {
		return errors.NotFound("Property", nil)
	}
	property.UpdatedAt = time.Now()
	clone := *property
	r.properties[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.properties, id)
	return nil
}

type fakeSavedPropertyRepo struct {
	mu    sync.Mutex
	saved map[string]*entity.SavedProperty
}

func newFakeSavedPropertyRepo() *fakeSavedPropertyRepo {
	return &fakeSavedPropertyRepo{saved: make(map[string]*entity.SavedProperty)}
}

func (r *fakeSavedPropertyRepo) Save(ctx context.Context, saved *entity.SavedProperty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if saved.ID == "" {
		saved.ID = entity.SavedPropertyIDFor(saved.UserID, saved.PropertyID)
	}
	saved.CreatedAt = time.Now()
	clone := *saved
	r.saved[saved.ID] = &clone
	return nil
}

func (r *fakeSavedPropertyRepo) Remove(ctx context.Context, userID, propertyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.saved, entity.SavedPropertyIDFor(userID, propertyID))
	return nil
}

func (r *fakeSavedPropertyRepo) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.saved[entity.SavedPropertyIDFor(userID, propertyID)]
	return ok, nil
}

func (r *fakeSavedPropertyRepo) ListByUser(ctx context.Context, userID string) ([]*entity.SavedProperty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.SavedProperty
	for _, saved := range r.saved {
		if saved.UserID == userID {
			clone := *saved
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type fakeAuthClient struct {
	mu          sync.Mutex
	passwords   map[string]string
	uidsByEmail map[string]string
	revoked     map[string]bool
	nextUID     int
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{
		passwords:   make(map[string]string),
		uidsByEmail: make(map[string]string),
		revoked:     make(map[string]bool),
	}
}

func (f *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.uidsByEmail[email]; ok {
		return "", fmt.Errorf("EMAIL_EXISTS")
	}
	f.nextUID++
	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.uidsByEmail[email] = uid
	f.passwords[email] = password
	return uid, nil
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var email string
	if _, err := fmt.Sscanf(token, "token:%s", &email); err != nil {
		return "", fmt.Errorf("INVALID_TOKEN")
	}
	uid, ok := f.uidsByEmail[email]
	if !ok {
		return "", fmt.Errorf("INVALID_TOKEN")
	}
	return uid, nil
}

func (f *fakeAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.passwords[email]
	if !ok || stored != password {
		return "", "", fmt.Errorf("INVALID_LOGIN_CREDENTIALS")
	}
	return "token:" + email, "refresh:" + email, nil
}

func (f *fakeAuthClient) RevokeTokens(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[uid] = true
	return nil
}
