package handlers

import (
	"net/http"
	"strings"
	"time"

	"closet-sync/internal/database"
	"closet-sync/internal/models"
	"closet-sync/internal/stylist"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultSessionTitle = "Style chat"

type ChatHandler struct {
	store   database.Store
	replier stylist.Replier
	nowFunc func() time.Time
}

func NewChatHandler(store database.Store, replier stylist.Replier) *ChatHandler {
	if replier == nil {
		replier = stylist.Canned{}
	}
	return &ChatHandler{store: store, replier: replier, nowFunc: time.Now}
}

// ListSessions godoc
// @Summary     List chat sessions
// @Description Returns session metadata, newest first, without messages.
// @Tags        chat
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SessionsResponse
// @Router      /chat/sessions [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to list sessions")
		return
	}
	c.JSON(http.StatusOK, models.SessionsResponse{Sessions: sessions})
}

// CreateSession godoc
// @Summary     Start a chat session
// @Description Creates a session, optionally seeded with messages such as the assistant's welcome.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateSessionRequest true "Session"
// @Success     201 {object} models.ChatSession
// @Failure     400 {object} models.ErrorResponse
// @Router      /chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultSessionTitle
	}
	for i := range req.Messages {
		req.Messages[i] = h.stamp(req.Messages[i], req.Messages[i].Role)
	}

	session, err := h.store.CreateSession(c.Request.Context(), uid, models.ChatSession{
		Title:    title,
		Messages: req.Messages,
	})
	if err != nil {
		respondError(c, err, "failed to create session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary     Get a chat session with its transcript
// @Tags        chat
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     200 {object} models.ChatSession
// @Failure     404 {object} models.ErrorResponse
// @Router      /chat/sessions/{id} [get]
func (h *ChatHandler) GetSession(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	session, err := h.store.GetSession(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// RenameSession godoc
// @Summary     Rename a chat session
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Param       request body models.RenameSessionRequest true "Title"
// @Success     200 {object} models.ChatSession
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /chat/sessions/{id} [patch]
func (h *ChatHandler) RenameSession(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(c, "title is required")
		return
	}

	session, err := h.store.RenameSession(c.Request.Context(), uid, c.Param("id"), strings.TrimSpace(req.Title))
	if err != nil {
		respondError(c, err, "failed to rename session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession godoc
// @Summary     Delete a chat session
// @Tags        chat
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /chat/sessions/{id} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err, "failed to delete session")
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMessage godoc
// @Summary     Send a message to the stylist
// @Description Stores the user message and the assistant reply together. Nothing is stored when the stylist fails.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Session ID"
// @Param       request body models.SendMessageRequest true "Message"
// @Success     200 {object} models.ChatReply
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(c, "message is required")
		return
	}

	ctx := c.Request.Context()
	session, err := h.store.GetSession(ctx, uid, c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}
	closet, err := h.store.ListItems(ctx, uid)
	if err != nil {
		respondError(c, err, "failed to list items")
		return
	}

	answer, err := h.replier.Reply(ctx, closet, session.Messages, req.Message)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "stylist unavailable", Message: err.Error()})
		return
	}

	userMsg := h.stamp(models.ChatMessage{Content: req.Message}, models.RoleUser)
	reply := h.stamp(models.ChatMessage{Content: answer.Content}, models.RoleAssistant)
	if err := h.store.AppendMessages(ctx, uid, session.ID, userMsg, reply); err != nil {
		respondError(c, err, "failed to store messages")
		return
	}

	c.JSON(http.StatusOK, models.ChatReply{Message: reply, Recommendations: answer.Recommendations})
}

func (h *ChatHandler) stamp(m models.ChatMessage, role models.Role) models.ChatMessage {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if role == "" {
		role = models.RoleAssistant
	}
	m.Role = role
	if m.SentAt.IsZero() {
		m.SentAt = h.nowFunc()
	}
	return m
}
