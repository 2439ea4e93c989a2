package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mahto/internal/domain/entity"
	"mahto/internal/domain/repository"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) CreateIfAbsent(ctx context.Context, conversation *entity.Conversation) (*entity.Conversation, bool, error) {
	if conversation.ID == "" {
		return nil, false, errors.BadRequest("Conversation id is required", nil)
	}

	docRef := r.client.Collection("conversations").Doc(conversation.ID)

	// Create fails with AlreadyExists when the pair already has a thread,
	// which makes concurrent start attempts from both sides converge on the
	// same document without a transaction.
	_, err := docRef.Create(ctx, conversation)
	if err == nil {
		return conversation, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, errors.Internal("Failed to create conversation", err)
	}

	existing, err := r.GetByID(ctx, conversation.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Conversation, int64, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageTimestamp", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching conversations for user %s: %v", userID, err)
		return nil, 0, errors.Internal("Failed to fetch conversations", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var conversations []*entity.Conversation
	for _, doc := range allDocs[start:end] {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			logger.Warn("Skipping malformed conversation %s: %v", doc.Ref.ID, err)
			continue
		}
		conversation.ID = doc.Ref.ID
		conversations = append(conversations, &conversation)
	}

	return conversations, total, nil
}

func (r *firestoreConversationRepository) Watch(ctx context.Context, userID string) (<-chan []*entity.Conversation, <-chan error) {
	updates := make(chan []*entity.Conversation)
	errs := make(chan error, 1)

	iter := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageTimestamp", firestore.Desc).
		Snapshots(ctx)

	go func() {
		defer close(updates)
		defer close(errs)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("Conversation watch for user %s ended: %v", userID, err)
				errs <- errors.Internal("Conversation subscription failed", err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read conversation snapshot for user %s: %v", userID, err)
				errs <- errors.Internal("Conversation subscription failed", err)
				return
			}

			conversations := make([]*entity.Conversation, 0, len(docs))
			for _, doc := range docs {
				var conversation entity.Conversation
				if err := doc.DataTo(&conversation); err != nil {
					logger.Warn("Skipping malformed conversation %s: %v", doc.Ref.ID, err)
					continue
				}
				conversation.ID = doc.Ref.ID
				conversations = append(conversations, &conversation)
			}

			select {
			case updates <- conversations:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errs
}

func (r *firestoreConversationRepository) AppendMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	convRef := r.client.Collection("conversations").Doc(conversationID)
	msgRef := convRef.Collection("messages").Doc(message.ID)

	// Message document and conversation summary commit together, so a crash
	// can never leave a stored message with a stale summary.
	batch := r.client.Batch()
	batch.Create(msgRef, message)
	batch.Update(convRef, []firestore.Update{
		{Path: "lastMessage", Value: message.Text},
		{Path: "lastMessageTimestamp", Value: firestore.ServerTimestamp},
		{Path: "unreadCount", Value: firestore.Increment(1)},
	})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to send message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while counting messages for conversation %s: %v", conversationID, err)
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message %s: %v", doc.Ref.ID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreConversationRepository) WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, <-chan error) {
	updates := make(chan []*entity.Message)
	errs := make(chan error, 1)

	iter := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").
		OrderBy("createdAt", firestore.Desc).
		Snapshots(ctx)

	go func() {
		defer close(updates)
		defer close(errs)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("Message watch for conversation %s ended: %v", conversationID, err)
				errs <- errors.Internal("Message subscription failed", err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read message snapshot for conversation %s: %v", conversationID, err)
				errs <- errors.Internal("Message subscription failed", err)
				return
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping malformed message %s: %v", doc.Ref.ID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			select {
			case updates <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errs
}

func (r *firestoreConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	convRef := r.client.Collection("conversations").Doc(conversationID)

	docs, err := convRef.Collection("messages").
		Where("read", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}

	batch := r.client.Batch()

	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		// Only the counterpart's messages become read; the reader's own
		// outgoing messages stay until the other side opens the thread.
		if message.SenderID == readerID {
			continue
		}
		batch.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}})
	}

	batch.Update(convRef, []firestore.Update{{Path: "unreadCount", Value: 0}})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to mark conversation as read", err)
	}

	return nil
}
