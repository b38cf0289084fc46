package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/woolly-dev/woolly/internal/codec"
	"github.com/woolly-dev/woolly/pkg/types"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListProjects(c *gin.Context) {
	mode, err := types.ParseMode(c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	names, err := s.store.ListProjects(c.Request.Context(), mode)
	if err != nil {
		s.logger.Error("list projects failed", "mode", mode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": names})
}

func (s *Server) handleGetPlan(c *gin.Context) {
	ref, ok := s.bindRef(c)
	if !ok {
		return
	}

	plan, revision, err := s.store.GetPlan(c.Request.Context(), ref)
	s.metrics.PlanReads.WithLabelValues(string(ref.Mode), strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		s.writeStoreError(c, ref, err)
		return
	}

	data, err := codec.Marshal(plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("ETag", `"`+revision+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) handlePutPlan(c *gin.Context) {
	ref, ok := s.bindRef(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := codec.Unmarshal(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var revision string
	ifRevision, err := s.ifRevision(c, ref)
	if err == nil {
		revision, err = s.store.PutPlan(c.Request.Context(), ref, plan, ifRevision)
	}
	s.metrics.PlanWrites.WithLabelValues(string(ref.Mode), strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			s.metrics.Conflicts.WithLabelValues(string(ref.Mode)).Inc()
		}
		s.writeStoreError(c, ref, err)
		return
	}

	c.Header("ETag", `"`+revision+`"`)
	c.JSON(http.StatusOK, gin.H{"revision": revision})
}

// ifRevision returns the revision a PUT is conditioned on. "If-Match: *"
// matches any stored revision, so it resolves to the current one and
// fails with ErrConflict when the plan does not exist.
func (s *Server) ifRevision(c *gin.Context, ref types.ProjectRef) (string, error) {
	tag := strings.TrimSpace(c.GetHeader("If-Match"))
	if tag != "*" {
		return strings.Trim(strings.TrimPrefix(tag, "W/"), `"`), nil
	}
	_, rev, err := s.store.GetPlan(c.Request.Context(), ref)
	if errors.Is(err, types.ErrNotFound) {
		return "", fmt.Errorf("if-match * on missing plan %s: %w", ref, types.ErrConflict)
	}
	return rev, err
}

// bindRef parses :mode and :name, writing a 400 on failure.
func (s *Server) bindRef(c *gin.Context) (types.ProjectRef, bool) {
	mode, err := types.ParseMode(c.Param("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return types.ProjectRef{}, false
	}
	ref := types.ProjectRef{Mode: mode, Name: c.Param("name")}
	if err := ref.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return types.ProjectRef{}, false
	}
	return ref, true
}

func (s *Server) writeStoreError(c *gin.Context, ref types.ProjectRef, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrConflict):
		s.logger.Info("stale plan write rejected", "project", ref.String())
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("store failed", "project", ref.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
