package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"secretshare-service/internal/apperror"
	"secretshare-service/internal/metrics"
	"secretshare-service/internal/services"
)

type FriendHandler struct {
	friends  *services.FriendshipService
	messages *services.MessageService
}

func NewFriendHandler(friends *services.FriendshipService, messages *services.MessageService) *FriendHandler {
	return &FriendHandler{friends: friends, messages: messages}
}

type sendRequestBody struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncFriendRequest(metrics.StatusFailed)
		writeError(c, apperror.Validation("user_id", "Invalid request body"))
		return
	}
	targetID, err := parseUUID(body.UserID, "user_id", "Invalid user id")
	if err != nil {
		metrics.IncFriendRequest(metrics.StatusFailed)
		writeError(c, err)
		return
	}

	friendship, err := h.friends.RequestFriendship(c.Request.Context(), identity.ID, targetID)
	metrics.IncFriendRequest(metricStatus(err))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusCreated, friendship)
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	friendshipID, err := parseUUID(c.Param("id"), "id", "Invalid friend request id")
	if err != nil {
		metrics.IncFriendAccept(metrics.StatusFailed)
		writeError(c, err)
		return
	}

	friendship, err := h.friends.AcceptFriendship(c.Request.Context(), identity.ID, friendshipID)
	metrics.IncFriendAccept(metricStatus(err))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, friendship)
}

func (h *FriendHandler) ListIncoming(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	requests, err := h.friends.ListPendingReceived(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, requests)
}

func (h *FriendHandler) ListOutgoing(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	requests, err := h.friends.ListPendingSent(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, requests)
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	friends, err := h.friends.ListFriends(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, friends)
}

// GetFriendMessage is the direct lookup path: any user id may be asked for,
// the gate decides.
func (h *FriendHandler) GetFriendMessage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	targetID, err := parseUUID(c.Param("id"), "id", "Invalid user id")
	if err != nil {
		metrics.IncMessageView(metrics.StatusFailed)
		writeError(c, err)
		return
	}

	message, err := h.messages.GetVisibleMessage(c.Request.Context(), identity.ID, targetID)
	metrics.IncMessageView(metricStatus(err))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"user_id": targetID, "message": message})
}
