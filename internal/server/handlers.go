package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/xaenox/eldric/internal/auth"
	"github.com/xaenox/eldric/internal/dialogue"
	"go.uber.org/zap"
)

type credentialsRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

type messageRequest struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type messageResponse struct {
	Response string `json:"response"`
}

const internalErrorMessage = "Error interno del servidor"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Eldric API funcionando"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	err := s.auth.Register(r.Context(), req.UserID, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeErrorResponse(w, http.StatusBadRequest, "user_id y password son obligatorios")
	case err != nil:
		writeErrorResponse(w, http.StatusInternalServerError, "Error al registrar usuario")
	default:
		writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Usuario registrado correctamente"})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	err := s.auth.Login(r.Context(), req.UserID, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeErrorResponse(w, http.StatusBadRequest, "user_id y password son obligatorios")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorResponse(w, http.StatusUnauthorized, "Credenciales incorrectas")
	case err != nil:
		s.logger.Error("Failed to log in", zap.Error(err), zap.String("user_id", req.UserID))
		writeErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
	default:
		writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Inicio de sesión exitoso"})
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "user_id y message son obligatorios")
		return
	}

	reply, err := s.responder.HandleMessage(r.Context(), dialogue.Request{
		UserID:   req.UserID,
		Message:  req.Message,
		Language: req.Language,
	})
	if err != nil {
		s.logger.Error("Failed to handle message",
			zap.Error(err),
			zap.String("user_id", req.UserID))
		writeErrorResponse(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{Response: reply.Text})
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]string{"error": message})
}
