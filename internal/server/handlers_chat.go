package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pennypal/pennypal/internal/logger"
	"github.com/pennypal/pennypal/internal/models"
)

// genericChatApology is what the client sees if a chat turn panics; chat
// errors are otherwise handled in-character by the router itself.
const genericChatApology = "Sorry, something went wrong on my end. Please try again."

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	// A chat turn never surfaces a raw 500: if the router panics the user
	// still gets an apology in the normal response shape.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.Error().Any("panic", rec).Msg("Chat turn panicked")
			writeJSON(w, http.StatusInternalServerError, models.ChatResponse{
				Reply: genericChatApology,
				Type:  models.ChatTypeError,
			})
		}
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = "anonymous"
	}

	resp := s.chat.Respond(r.Context(), userID, req.Message)
	writeJSON(w, http.StatusOK, resp)
}
