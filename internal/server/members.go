package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type memberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// handleListMembers returns the members of a project the actor belongs to.
func (s *Server) handleListMembers(c *gin.Context) {
	members, err := s.store.ListMembers(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"members": members})
}

// handleAddMember invites a user into a project.
func (s *Server) handleAddMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	member, err := s.store.AddMember(c.Request.Context(), actorID(c), c.Param("id"), req.UserID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"member": member})
}

// handleRemoveMember drops a user from a project.
func (s *Server) handleRemoveMember(c *gin.Context) {
	if err := s.store.RemoveMember(c.Request.Context(), actorID(c), c.Param("id"), c.Param("userId")); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "removed"})
}
