package repository

import (
	"context"

	"mahto/internal/domain/entity"
)

type ConversationRepository interface {
	// CreateIfAbsent creates the conversation under its deterministic id, or
	// returns the existing document. The bool reports whether a new document
	// was written.
	CreateIfAbsent(ctx context.Context, conversation *entity.Conversation) (*entity.Conversation, bool, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// ListByUser returns conversations containing userID ordered by
	// lastMessageTimestamp descending.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error)
	// Watch streams the user's full conversation set on every change. Both
	// channels close when ctx is cancelled.
	Watch(ctx context.Context, userID string) (<-chan []*entity.Conversation, <-chan error)

	// AppendMessage writes the message document and the parent summary
	// (lastMessage, lastMessageTimestamp, unreadCount) in one atomic batch.
	AppendMessage(ctx context.Context, conversationID string, message *entity.Message) error
	// ListMessages returns messages ordered by createdAt descending.
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error)
	WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, <-chan error)
	// MarkRead flips read=true on messages not sent by readerID and resets
	// the summary's unread counter.
	MarkRead(ctx context.Context, conversationID, readerID string) error
}
