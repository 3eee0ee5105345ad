package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/metrics"
	"secretshare-service/internal/services"
)

type UserHandler struct {
	profiles *services.ProfileService
	friends  *services.FriendshipService
	messages *services.MessageService
}

func NewUserHandler(profiles *services.ProfileService, friends *services.FriendshipService, messages *services.MessageService) *UserHandler {
	return &UserHandler{profiles: profiles, friends: friends, messages: messages}
}

// GetMe is the dashboard: the caller's profile and message plus every
// relationship list. The profile is created on first call.
func (h *UserHandler) GetMe(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.profiles.EnsureProfile(ctx, identity)
	if err != nil {
		writeError(c, err)
		return
	}

	friends, err := h.friends.ListFriends(ctx, identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	incoming, err := h.friends.ListPendingReceived(ctx, identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	outgoing, err := h.friends.ListPendingSent(ctx, identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"id":                profile.ID,
		"email":             profile.Email,
		"full_name":         profile.FullName,
		"secret_message":    profile.SecretMessage,
		"friends":           friends,
		"incoming_requests": incoming,
		"outgoing_requests": outgoing,
	})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	if err := h.profiles.DeleteAccount(c.Request.Context(), identity.ID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}

type setMessageBody struct {
	Message string `json:"message"`
}

func (h *UserHandler) SetMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var body setMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncMessageUpdate(metrics.StatusFailed)
		writeError(c, apperror.Validation("message", "Invalid request body"))
		return
	}

	profile, err := h.messages.SetOwnMessage(c.Request.Context(), identity, body.Message)
	metrics.IncMessageUpdate(metricStatus(err))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"message":    profile.Message(),
		"updated_at": profile.UpdatedAt,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	users, err := h.friends.ListOtherUsers(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, users)
}
