package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

// AuthHandler 会话校验
type AuthHandler struct {
	sessions *service.SessionService
	logger   *zap.Logger
}

func NewAuthHandler(sessions *service.SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

type verifySessionRequest struct {
	Session string `json:"session"`
}

// VerifySession 返回 {valid, firstLogin}；无效会话 401
func (h *AuthHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	var req verifySessionRequest
	if err := readBodyJSON(r, 4<<10, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "invalid request body"})
		return
	}
	resp, err := h.sessions.VerifySession(r.Context(), req.Session)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"valid": false})
			return
		}
		h.logger.Error("Session verification failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"valid": false, "error": "session store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type devSessionRequest struct {
	UserID string `json:"userId"`
}

// IssueDevSession 本地联调签发会话；只在配置开启时注册
func (h *AuthHandler) IssueDevSession(w http.ResponseWriter, r *http.Request) {
	var req devSessionRequest
	if err := readBodyJSON(r, 4<<10, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	token, err := h.sessions.CreateSession(r.Context(), req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	h.logger.Warn("Issued development session", zap.String("user_id", req.UserID))
	writeJSON(w, http.StatusCreated, Ok("session issued", map[string]string{"session": token}))
}

// Logout 注销会话；不存在的会话也返回成功
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req verifySessionRequest
	if err := readBodyJSON(r, 4<<10, &req); err != nil || req.Session == "" {
		writeJSON(w, http.StatusBadRequest, Fail("session is required"))
		return
	}
	if err := h.sessions.RevokeSession(r.Context(), req.Session); err != nil {
		h.logger.Error("Session revoke failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("session store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any]("logged out", nil))
}
