package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/privcheck/internal/api"
)

// Handler wires HTTP handlers to the Service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assessments", h.start)
	rg.GET("/assessments/:id", h.status)
	rg.POST("/assessments/:id/answers", h.submitAnswer)
	rg.POST("/assessments/:id/complete", h.complete)
}

func (h *Handler) start(c *gin.Context) {
	var req api.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	id, err := h.Svc.Start(c.Request.Context(), ownerFrom(c), req.Kind)
	if err != nil {
		h.fail(c, err, "failed to start assessment")
		return
	}
	respondJSON(c, http.StatusCreated, api.StartResponse{AssessmentID: id})
}

func (h *Handler) submitAnswer(c *gin.Context) {
	var req api.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if req.QuestionID == "" || req.Value == "" {
		respondError(c, http.StatusBadRequest, api.CodeValidation, "questionId and value are required", nil)
		return
	}
	if err := h.Svc.SubmitAnswer(c.Request.Context(), c.Param("id"), req); err != nil {
		h.fail(c, err, "failed to save answer")
		return
	}
	respondJSON(c, http.StatusOK, api.Ack{OK: true})
}

func (h *Handler) complete(c *gin.Context) {
	out, err := h.Svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to complete assessment")
		return
	}
	respondJSON(c, http.StatusOK, api.NewCompleteResponse(out))
}

func (h *Handler) status(c *gin.Context) {
	st, err := h.Svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch assessment")
		return
	}
	respondJSON(c, http.StatusOK, st)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, api.CodeValidation, verr.Message, []map[string]string{
			{"field": verr.Field, "issue": verr.Message},
		})
	case errors.Is(err, ErrNotFound):
		respondError(c, http.StatusNotFound, api.CodeNotFound, "assessment not found", nil)
	case errors.Is(err, ErrCompleted):
		respondError(c, http.StatusConflict, api.CodeConflict, "assessment already completed", nil)
	default:
		loggerFrom(c).Error("handler failed", "err", err)
		respondError(c, http.StatusInternalServerError, api.CodeInternal, fallback, nil)
	}
}
