package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JaneshKapoor/nayraa/models"
	"github.com/JaneshKapoor/nayraa/services"
)

// SessionHandler exposes the capture workflow to the mobile UI. Each screen
// mount opens a session, the capture controls drive it, and unmounting
// deletes it.
type SessionHandler struct {
	sessions *services.CaptureSessionService
}

func NewSessionHandler(sessions *services.CaptureSessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Start(c *gin.Context) {
	session := h.sessions.Start(c.Request.Context())
	c.JSON(http.StatusCreated, h.sessionResponse(session))
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) Destroy(c *gin.Context) {
	if err := h.sessions.Destroy(c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session discarded"})
}

func (h *SessionHandler) CapturePhoto(c *gin.Context) {
	session, err := h.sessions.CapturePhoto(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) RetakePhoto(c *gin.Context) {
	session, err := h.sessions.RetakePhoto(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) StartRecording(c *gin.Context) {
	session, err := h.sessions.StartRecording(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) StopRecording(c *gin.Context) {
	session, err := h.sessions.StopRecording(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) RetakeVideo(c *gin.Context) {
	session, err := h.sessions.RetakeVideo(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) RetryPermission(c *gin.Context) {
	capability := models.Capability(c.Param("capability"))
	switch capability {
	case models.CapabilityCamera, models.CapabilityMediaLibrary,
		models.CapabilityMicrophone, models.CapabilityLocation:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown capability"})
		return
	}

	session, err := h.sessions.RetryPermission(c.Request.Context(), c.Param("id"), capability)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(session))
}

func (h *SessionHandler) Submit(c *gin.Context) {
	ticketID, err := h.sessions.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticket_id": ticketID,
		"message":   "Report submitted successfully!\nTicket ID: " + ticketID,
	})
}

func (h *SessionHandler) sessionResponse(session *models.CaptureSession) gin.H {
	resp := gin.H{"session": session}
	if h.sessions.TakeMutedWarning(session.ID) {
		resp["warning"] = "Microphone permission was denied. Recording will have no audio."
	}
	return resp
}

func (h *SessionHandler) renderError(c *gin.Context, err error) {
	var permErr *services.PermissionError
	var stateErr *services.StateError
	var captureErr *services.CaptureError
	var recordErr *services.RecordingError
	var submitErr *services.SubmissionError

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})

	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":      permErr.Error(),
			"capability": permErr.Capability,
			"retryable":  true,
		})

	case errors.Is(err, services.ErrNotSubmittable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "missing information",
			"message": "Please ensure a photo, video, and location are all captured before submitting.",
		})

	case errors.Is(err, services.ErrSubmissionInProgress),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrRecordingInProgress),
		errors.Is(err, services.ErrNotRecording):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})

	case errors.As(err, &captureErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to take picture. Please try again.",
			"details": captureErr.Error(),
		})

	case errors.As(err, &recordErr):
		msg := "Failed to record video. Please try again."
		if recordErr.PermissionSuspected {
			msg = "Recording failed, likely due to microphone permission. Please check your device settings and try again."
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":                msg,
			"permission_suspected": recordErr.PermissionSuspected,
		})

	case errors.As(err, &submitErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to submit report. Please check your network and try again.",
			"step":  submitErr.Step,
		})

	default:
		log.Printf("[session] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
