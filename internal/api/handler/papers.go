// Package handler provides HTTP handlers for the API.
// This file handles question paper management endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/store"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// PaperHandler handles question paper API requests
type PaperHandler struct {
	papers store.PaperStore
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(papers store.PaperStore) *PaperHandler {
	return &PaperHandler{papers: papers}
}

// LoadPaper loads a question paper into the store
// POST /api/v1/papers
func (h *PaperHandler) LoadPaper(c *gin.Context) {
	var paper model.Paper
	if err := c.ShouldBindJSON(&paper); err != nil {
		respondError(c, errors.ErrValidation("Invalid paper payload: "+err.Error()))
		return
	}
	if paper.Title == "" {
		respondError(c, errors.ErrValidation("Paper title is required"))
		return
	}
	if len(paper.Sections) == 0 {
		respondError(c, errors.ErrValidation("Paper must contain at least one section"))
		return
	}

	id := h.papers.Put(paper)
	logger.Info("Paper loaded",
		zap.String("paper_id", id),
		zap.String("title", paper.Title),
		zap.Int("sections", len(paper.Sections)),
		zap.Int("questions", paper.QuestionCount()),
	)

	c.JSON(http.StatusCreated, gin.H{
		"id":          id,
		"title":       paper.Title,
		"sections":    len(paper.Sections),
		"questions":   paper.QuestionCount(),
		"total_marks": paper.TotalMarks(),
		"duration":    paper.Duration(),
	})
}

// GetPaper returns a single paper by ID
// GET /api/v1/papers/:id
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.papers.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paper)
}

// ListPapers returns summaries of all loaded papers
// GET /api/v1/papers
func (h *PaperHandler) ListPapers(c *gin.Context) {
	papers := h.papers.List()
	summaries := make([]gin.H, 0, len(papers))
	for i := range papers {
		p := &papers[i]
		summaries = append(summaries, gin.H{
			"id":          p.ID,
			"title":       p.Title,
			"subject":     p.Subject,
			"sections":    len(p.Sections),
			"questions":   p.QuestionCount(),
			"total_marks": p.TotalMarks(),
			"duration":    p.Duration(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"papers": summaries})
}

// DeletePaper removes a paper from the store
// DELETE /api/v1/papers/:id
func (h *PaperHandler) DeletePaper(c *gin.Context) {
	h.papers.Delete(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
