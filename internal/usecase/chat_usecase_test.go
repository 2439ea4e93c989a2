package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahto/internal/domain/entity"
	"mahto/internal/infrastructure/cache"
	ws "mahto/internal/infrastructure/websocket"
	"mahto/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeConversationRepo, *fakeUserRepo, *fakePropertyRepo) {
	t.Helper()

	convRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo()
	propRepo := newFakePropertyRepo()

	for _, user := range []*entity.User{
		{ID: "alice", Name: "Alice", Email: "15550001111@mahto.app", Image: "https://cdn.mahto.app/avatars/alice.jpg"},
		{ID: "bob", Name: "Bob", Email: "15550002222@mahto.app"},
	} {
		require.NoError(t, userRepo.Create(context.Background(), user))
	}

	uc := NewChatUseCase(convRepo, userRepo, propRepo, cache.NewProfileCache(time.Minute, 10), ws.NewManager(), time.Second)
	return uc, convRepo, userRepo, propRepo
}

func TestStartConversationDeterministicID(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	second, err := uc.StartConversation(ctx, "bob", StartConversationInput{RecipientID: "alice"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice_bob", first.ID)
	assert.ElementsMatch(t, []string{"alice", "bob"}, second.Participants)
}

func TestStartConversationWithProperty(t *testing.T) {
	uc, _, _, propRepo := newChatFixture(t)
	ctx := context.Background()

	property := &entity.Property{
		OwnerID:     "bob",
		Title:       "Sunny villa with garden",
		Price:       250000,
		Location:    "Hilltop",
		Type:        entity.PropertyTypeVilla,
		ListingType: entity.ListingTypeSell,
	}
	require.NoError(t, propRepo.Create(ctx, property))

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob", PropertyID: property.ID})
	require.NoError(t, err)

	assert.Equal(t, property.ID, view.PropertyID)
	assert.Equal(t, "Sunny villa with garden", view.PropertyTitle)
	assert.Equal(t, "Bob", view.OtherUser.Name)
}

func TestStartConversationRejectsSelf(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, err := uc.StartConversation(context.Background(), "alice", StartConversationInput{RecipientID: "alice"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestStartConversationRequiresAuth(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, err := uc.StartConversation(context.Background(), "", StartConversationInput{RecipientID: "bob"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestStartConversationUnknownRecipient(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)

	_, err := uc.StartConversation(context.Background(), "alice", StartConversationInput{RecipientID: "nobody"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageTrimsAndUpdatesSummary(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	message, err := uc.SendMessage(ctx, "alice", view.ID, "  Is the villa still available?  ")
	require.NoError(t, err)
	assert.Equal(t, "Is the villa still available?", message.Text)
	assert.Equal(t, "alice", message.SenderID)
	assert.False(t, message.Read)

	conversation, err := convRepo.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Is the villa still available?", conversation.LastMessage)
	assert.Equal(t, 1, conversation.UnreadCount)
}

func TestSendMessageBlankIsRejectedWithoutWrite(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", view.ID, "   \n\t ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	messages, total, err := convRepo.ListMessages(ctx, view.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Zero(t, total)

	conversation, err := convRepo.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Empty(t, conversation.LastMessage)
	assert.Zero(t, conversation.UnreadCount)
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	uc, _, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "mallory", Name: "Mallory"}))

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "mallory", view.ID, "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMessagesNewestFirst(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx := context.Background()

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := uc.SendMessage(ctx, "alice", view.ID, text)
		require.NoError(t, err)
	}

	messages, total, err := uc.GetMessages(ctx, "alice", view.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(3), total)

	assert.Equal(t, "third", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
	assert.Equal(t, "first", messages[2].Text)
}

func TestMarkConversationRead(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", view.ID, "from alice")
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "bob", view.ID, "from bob")
	require.NoError(t, err)

	require.NoError(t, uc.MarkConversationRead(ctx, "bob", view.ID))

	conversation, err := convRepo.GetByID(ctx, view.ID)
	require.NoError(t, err)
	assert.Zero(t, conversation.UnreadCount)

	messages, _, err := convRepo.ListMessages(ctx, view.ID, 0, 0)
	require.NoError(t, err)
	for _, message := range messages {
		if message.SenderID == "alice" {
			assert.True(t, message.Read, "counterpart message should be read")
		} else {
			assert.False(t, message.Read, "reader's own message stays unread")
		}
	}
}

func TestListConversationsEnrichesCounterpart(t *testing.T) {
	uc, _, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	_, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	views, total, err := uc.ListConversations(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bob", views[0].OtherUser.Name)

	callsAfterFirst := userRepo.getByIDCalls

	// Second list hits the profile cache instead of the repository.
	_, _, err = uc.ListConversations(ctx, "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, userRepo.getByIDCalls)
}

func TestCounterpartLookupFailureDegradesToPlaceholder(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture(t)
	ctx := context.Background()

	_, _, err := convRepo.CreateIfAbsent(ctx, &entity.Conversation{
		ID:           entity.ConversationIDFor("alice", "ghost"),
		Participants: []string{"alice", "ghost"},
	})
	require.NoError(t, err)

	views, _, err := uc.ListConversations(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "User", views[0].OtherUser.Name)
}

func TestWatchConversationsStreamsSnapshots(t *testing.T) {
	uc, _, _, _ := newChatFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	updates, _ := uc.WatchConversations(ctx, "alice")

	select {
	case views := <-updates:
		require.Len(t, views, 1)
		assert.Equal(t, "Bob", views[0].OtherUser.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for conversation snapshot")
	}
}

func TestPropertyInquiryFlow(t *testing.T) {
	uc, _, _, propRepo := newChatFixture(t)
	ctx := context.Background()

	property := &entity.Property{
		OwnerID:     "bob",
		Title:       "Two bedroom apartment",
		Price:       1200,
		Location:    "Riverside",
		Type:        entity.PropertyTypeApartment,
		ListingType: entity.ListingTypeRent,
	}
	require.NoError(t, propRepo.Create(ctx, property))

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob", PropertyID: property.ID})
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "alice", view.ID, "Is the apartment still available?")
	require.NoError(t, err)

	views, _, err := uc.ListConversations(ctx, "bob", 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Is the apartment still available?", views[0].LastMessage)
	assert.Equal(t, "Two bedroom apartment", views[0].PropertyTitle)
	assert.Equal(t, 1, views[0].UnreadCount)
	assert.Equal(t, "Alice", views[0].OtherUser.Name)

	require.NoError(t, uc.MarkConversationRead(ctx, "bob", view.ID))

	views, _, err = uc.ListConversations(ctx, "bob", 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Zero(t, views[0].UnreadCount)

	messages, _, err := uc.GetMessages(ctx, "bob", view.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)
}

func TestWatchMessagesRequiresParticipant(t *testing.T) {
	uc, _, userRepo, _ := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "mallory", Name: "Mallory"}))

	view, err := uc.StartConversation(ctx, "alice", StartConversationInput{RecipientID: "bob"})
	require.NoError(t, err)

	updates, errs := uc.WatchMessages(ctx, "mallory", view.ID)

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.True(t, errors.Is(err, "FORBIDDEN"))
	case <-time.After(time.Second):
		t.Fatal("expected an error on the error channel")
	}

	_, open := <-updates
	assert.False(t, open)
}
