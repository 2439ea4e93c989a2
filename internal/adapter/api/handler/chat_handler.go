package handler

import (
	"github.com/labstack/echo/v4"

	"mahto/internal/usecase"
	"mahto/pkg/errors"
	"mahto/pkg/response"
	"mahto/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	PropertyID  string `json:"property_id"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	view, err := h.chatUseCase.StartConversation(c.Request().Context(), getUserIDFromContext(c), usecase.StartConversationInput{
		RecipientID: req.RecipientID,
		PropertyID:  req.PropertyID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, view)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	views, total, err := h.chatUseCase.ListConversations(c.Request().Context(), getUserIDFromContext(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, views, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), getUserIDFromContext(c), c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetMessages(c.Request().Context(), getUserIDFromContext(c), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkAsRead(c echo.Context) error {
	if err := h.chatUseCase.MarkConversationRead(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Conversation marked as read",
	})
}
