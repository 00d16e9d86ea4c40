package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/summerstudio/meetscribe-backend/internal/http/response"
	meetingmod "github.com/summerstudio/meetscribe-backend/internal/modules/meeting"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

const maxTranscriptBytes = 20 << 20 // 20 MiB

type MeetingHandler struct {
	log      *logger.Logger
	usecases meetingmod.Usecases
}

func NewMeetingHandler(log *logger.Logger, usecases meetingmod.Usecases) *MeetingHandler {
	return &MeetingHandler{
		log:      log.With("handler", "MeetingHandler"),
		usecases: usecases,
	}
}

// Analyze accepts a VTT transcript as a multipart "file" field or as the
// raw request body and runs the full pipeline on it. An optional "model"
// form field overrides the configured model for this run.
func (h *MeetingHandler) Analyze(c *gin.Context) {
	raw, err := readTranscript(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_transcript", err)
		return
	}
	if strings.TrimSpace(raw) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_transcript", fmt.Errorf("empty transcript"))
		return
	}

	out, err := h.usecases.Analyze(c.Request.Context(), meetingmod.AnalyzeInput{
		RawVTT: raw,
		Model:  c.PostForm("model"),
		Force:  c.Query("force") == "true",
	})
	if err != nil {
		h.log.Error("analysis failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	response.RespondOK(c, out.Result)
}

func (h *MeetingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_meeting_id", err)
		return
	}
	result, err := h.usecases.GetMeeting(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, meetingmod.ErrMeetingNotFound) {
			response.RespondError(c, http.StatusNotFound, "meeting_not_found", err)
			return
		}
		h.log.Error("get meeting failed", "meeting_id", id, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "get_meeting_failed", err)
		return
	}
	response.RespondOK(c, result)
}

func (h *MeetingHandler) GetMindmap(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_meeting_id", err)
		return
	}
	graph, err := h.usecases.GetMindmap(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, meetingmod.ErrMeetingNotFound) {
			response.RespondError(c, http.StatusNotFound, "meeting_not_found", err)
			return
		}
		h.log.Error("get mindmap failed", "meeting_id", id, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "get_mindmap_failed", err)
		return
	}
	response.RespondOK(c, graph)
}

func (h *MeetingHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	meetings, err := h.usecases.ListMeetings(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("list meetings failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_meetings_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"meetings": meetings})
}

func readTranscript(c *gin.Context) (string, error) {
	if file, err := c.FormFile("file"); err == nil && file != nil {
		if file.Size > maxTranscriptBytes {
			return "", fmt.Errorf("transcript exceeds %d bytes", maxTranscriptBytes)
		}
		f, err := file.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		raw, err := io.ReadAll(io.LimitReader(f, maxTranscriptBytes))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTranscriptBytes))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
