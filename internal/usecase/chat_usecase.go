package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/internal/infrastructure/cache"
	"mahto/internal/infrastructure/ratelimit"
	ws "mahto/internal/infrastructure/websocket"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	propertyRepo     repository.PropertyRepository
	profileCache     *cache.ProfileCache
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter
	writeTimeout     time.Duration
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	profileCache *cache.ProfileCache,
	wsManager *ws.Manager,
	writeTimeout time.Duration,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		propertyRepo:     propertyRepo,
		profileCache:     profileCache,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
		writeTimeout:     writeTimeout,
	}
}

type StartConversationInput struct {
	RecipientID string
	PropertyID  string
}

// CounterpartProfile is the display slice of the other participant attached
// to each conversation row.
type CounterpartProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// ConversationView is a conversation enriched with the counterpart's profile.
type ConversationView struct {
	*entity.Conversation
	OtherUser *CounterpartProfile `json:"other_user"`
}

// StartConversation opens (or returns) the thread between the caller and the
// recipient. The document id is derived from the participant pair, so both
// sides starting at once land on the same conversation.
func (uc *ChatUseCase) StartConversation(ctx context.Context, userID string, input StartConversationInput) (*ConversationView, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if input.RecipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if input.RecipientID == userID {
		return nil, errors.BadRequest("Cannot start a conversation with yourself", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "start_conversation")
	if !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many new conversations. Try again in %.0f seconds", waitTime.Seconds()))
	}

	if _, err := uc.userRepo.GetByID(ctx, input.RecipientID); err != nil {
		return nil, errors.NotFound("Recipient", err)
	}

	conversation := &entity.Conversation{
		ID:           entity.ConversationIDFor(userID, input.RecipientID),
		Participants: []string{userID, input.RecipientID},
	}

	if input.PropertyID != "" {
		property, err := uc.propertyRepo.GetByID(ctx, input.PropertyID)
		if err != nil {
			return nil, err
		}
		conversation.PropertyID = property.ID
		conversation.PropertyTitle = property.Title
	}

	writeCtx, cancel := context.WithTimeout(ctx, uc.writeTimeout)
	defer cancel()

	stored, created, err := uc.conversationRepo.CreateIfAbsent(writeCtx, conversation)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("Conversation %s created by %s", stored.ID, userID)
	}

	return &ConversationView{
		Conversation: stored,
		OtherUser:    uc.counterpartProfile(ctx, input.RecipientID),
	}, nil
}

// SendMessage appends a message to the thread. The message and the summary
// fields on the conversation commit atomically; blank text is rejected before
// anything is written.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, conversationID, text string) (*entity.Message, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Sending too fast. Try again in %.0f seconds", waitTime.Seconds()))
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this conversation", nil)
	}

	message := &entity.Message{
		Text:     text,
		SenderID: userID,
	}

	writeCtx, cancel := context.WithTimeout(ctx, uc.writeTimeout)
	defer cancel()

	if err := uc.conversationRepo.AppendMessage(writeCtx, conversationID, message); err != nil {
		return nil, err
	}

	uc.notifyNewMessage(conversation, message)

	return message, nil
}

// ListConversations returns the caller's threads newest first, each enriched
// with the counterpart's profile.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string, limit, offset int) ([]*ConversationView, int64, error) {
	if userID == "" {
		return nil, 0, errors.Unauthorized("Authentication required", nil)
	}

	conversations, total, err := uc.conversationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return uc.enrich(ctx, userID, conversations), total, nil
}

// WatchConversations streams the caller's full conversation list on every
// change. Cancelling ctx ends the stream.
func (uc *ChatUseCase) WatchConversations(ctx context.Context, userID string) (<-chan []*ConversationView, <-chan error) {
	views := make(chan []*ConversationView)
	errs := make(chan error, 1)

	if userID == "" {
		errs <- errors.Unauthorized("Authentication required", nil)
		close(views)
		close(errs)
		return views, errs
	}

	updates, repoErrs := uc.conversationRepo.Watch(ctx, userID)

	go func() {
		defer close(views)
		defer close(errs)

		for {
			select {
			case conversations, ok := <-updates:
				if !ok {
					if err, open := <-repoErrs; open && err != nil {
						errs <- err
					}
					return
				}
				select {
				case views <- uc.enrich(ctx, userID, conversations):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return views, errs
}

// GetMessages returns messages newest first; reversing a page yields
// chronological order for display.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, 0, err
	}

	return uc.conversationRepo.ListMessages(ctx, conversationID, limit, offset)
}

// WatchMessages streams the thread's messages on every change.
func (uc *ChatUseCase) WatchMessages(ctx context.Context, userID, conversationID string) (<-chan []*entity.Message, <-chan error) {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		updates := make(chan []*entity.Message)
		errs := make(chan error, 1)
		errs <- err
		close(updates)
		close(errs)
		return updates, errs
	}

	return uc.conversationRepo.WatchMessages(ctx, conversationID)
}

// MarkConversationRead clears the unread counter and flips read on the
// counterpart's messages.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, uc.writeTimeout)
	defer cancel()

	return uc.conversationRepo.MarkRead(writeCtx, conversationID, userID)
}

func (uc *ChatUseCase) requireParticipant(ctx context.Context, userID, conversationID string) error {
	if userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("Not a participant of this conversation", nil)
	}

	return nil
}

func (uc *ChatUseCase) enrich(ctx context.Context, userID string, conversations []*entity.Conversation) []*ConversationView {
	views := make([]*ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		views = append(views, &ConversationView{
			Conversation: conversation,
			OtherUser:    uc.counterpartProfile(ctx, conversation.Counterpart(userID)),
		})
	}
	return views
}

// counterpartProfile resolves the display profile for a user through the
// bounded cache. Lookup failures degrade to a placeholder so one broken
// profile cannot take down the whole list.
func (uc *ChatUseCase) counterpartProfile(ctx context.Context, counterpartID string) *CounterpartProfile {
	if counterpartID == "" {
		return &CounterpartProfile{Name: "User"}
	}

	if user, ok := uc.profileCache.Get(counterpartID); ok {
		return &CounterpartProfile{ID: user.ID, Name: user.Name, Avatar: user.Image}
	}

	user, err := uc.userRepo.GetByID(ctx, counterpartID)
	if err != nil {
		logger.Warn("Failed to resolve counterpart %s: %v", counterpartID, err)
		return &CounterpartProfile{ID: counterpartID, Name: "User"}
	}

	uc.profileCache.Put(counterpartID, user)

	return &CounterpartProfile{ID: user.ID, Name: user.Name, Avatar: user.Image}
}

func (uc *ChatUseCase) notifyNewMessage(conversation *entity.Conversation, message *entity.Message) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":            "new_message",
		"conversation_id": conversation.ID,
		"message":         message,
	})
	if err != nil {
		logger.Error("Failed to marshal message notification: %v", err)
		return
	}

	uc.wsManager.SendToRoom(conversation.ID, payload, message.SenderID)

	summary, err := json.Marshal(map[string]interface{}{
		"type":            "conversation_updated",
		"conversation_id": conversation.ID,
		"last_message":    message.Text,
	})
	if err != nil {
		return
	}

	for _, participantID := range conversation.Participants {
		if participantID == message.SenderID {
			continue
		}
		uc.wsManager.SendToUser(participantID, summary)
	}
}
