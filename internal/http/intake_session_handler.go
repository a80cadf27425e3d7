package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/wizard"
)

const intakeSessionsPrefix = "/api/intake/sessions"

// IntakeSessionHandler 服务端向导草稿：逐字段编辑、签名、翻页、提交
type IntakeSessionHandler struct {
	sessions     *wizard.Sessions
	participants service.ParticipantService
	logger       *zap.Logger
}

func NewIntakeSessionHandler(sessions *wizard.Sessions, participants service.ParticipantService, logger *zap.Logger) *IntakeSessionHandler {
	return &IntakeSessionHandler{sessions: sessions, participants: participants, logger: logger}
}

// sessionView 会话响应
type sessionView struct {
	ID       string              `json:"id"`
	Intake   domain.Intake       `json:"intake"`
	Progress wizard.ProgressView `json:"progress"`
}

func viewOf(wz *wizard.Wizard) sessionView {
	return sessionView{ID: wz.ID(), Intake: wz.Intake(), Progress: wz.Progress()}
}

type setFieldRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type signRequest struct {
	Signature        string `json:"signature"`
	Agreed           *bool  `json:"agreed,omitempty"`
	WitnessSignature string `json:"witnessSignature,omitempty"`
}

type goToRequest struct {
	Page int `json:"page"`
}

// Pages GET /api/intake/pages
func (h *IntakeSessionHandler) Pages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok("ok", wizard.Pages()))
}

func (h *IntakeSessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seg := pathSegments(r.URL.Path, intakeSessionsPrefix)

	if len(seg) == 0 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		wz := h.sessions.Start()
		writeJSON(w, http.StatusCreated, Ok("session started", viewOf(wz)))
		return
	}

	wz, err := h.sessions.Get(seg[0])
	if err != nil {
		writeJSON(w, http.StatusNotFound, Fail("intake session not found"))
		return
	}

	action := ""
	if len(seg) > 1 {
		action = seg[1]
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, Ok("ok", viewOf(wz)))
	case action == "" && r.Method == http.MethodDelete:
		h.sessions.Discard(wz.ID())
		writeJSON(w, http.StatusOK, Ok("session discarded", map[string]any{"id": wz.ID()}))
	case action == "fields" && len(seg) == 2 && r.Method == http.MethodPatch:
		h.setField(w, r, wz)
	case action == "signatures" && len(seg) == 3 && r.Method == http.MethodPut:
		h.sign(w, r, wz, domain.SignatureType(seg[2]))
	case action == "next" && len(seg) == 2 && r.Method == http.MethodPost:
		view, moved := wz.Next()
		writeJSON(w, http.StatusOK, Ok("ok", map[string]any{"moved": moved, "progress": view}))
	case action == "back" && len(seg) == 2 && r.Method == http.MethodPost:
		view, moved := wz.Back()
		writeJSON(w, http.StatusOK, Ok("ok", map[string]any{"moved": moved, "progress": view}))
	case action == "goto" && len(seg) == 2 && r.Method == http.MethodPost:
		h.goTo(w, r, wz)
	case action == "submit" && len(seg) == 2 && r.Method == http.MethodPost:
		h.submit(w, r, wz)
	case action == "" || len(seg) <= 3:
		methodNotAllowed(w)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *IntakeSessionHandler) setField(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard) {
	var req setFieldRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	in, err := wz.SetField(req.Field, req.Value)
	if err != nil {
		if errors.Is(err, wizard.ErrUnknownField) {
			writeJSON(w, http.StatusBadRequest, FailWith(err.Error(), "unknown_field"))
			return
		}
		writeJSON(w, http.StatusBadRequest, FailWith("invalid value for "+req.Field, "invalid_value"))
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", in))
}

func (h *IntakeSessionHandler) sign(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard, t domain.SignatureType) {
	var req signRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	var sig domain.Signature
	var err error
	if req.Signature != "" {
		sig, err = wz.Sign(t, req.Signature, req.Agreed)
	}
	if err == nil && req.WitnessSignature != "" {
		sig, err = wz.Witness(t, req.WitnessSignature)
	}
	if err == nil && req.Signature == "" && req.WitnessSignature == "" {
		err = wizard.ErrEmptySignature
	}
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrWitnessBeforeSignature):
			writeJSON(w, http.StatusConflict, FailWith(err.Error(), "witness_before_signature"))
		case errors.Is(err, wizard.ErrUnknownSignatureType):
			writeJSON(w, http.StatusNotFound, FailWith(err.Error(), "unknown_signature_type"))
		default:
			writeJSON(w, http.StatusBadRequest, FailWith(err.Error(), "incomplete_signature"))
		}
		return
	}
	writeJSON(w, http.StatusOK, Ok("signature recorded", sig))
}

func (h *IntakeSessionHandler) goTo(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard) {
	var req goToRequest
	if err := readBodyJSON(r, 4<<10, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	view, err := wz.GoTo(req.Page)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, FailWith(err.Error(), "page_out_of_range"))
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", map[string]any{"moved": true, "progress": view}))
}

// submit 成功后丢弃会话；失败（校验/写库）保留会话供继续编辑
func (h *IntakeSessionHandler) submit(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard) {
	var status int
	var body any
	err := wz.Submit(r.Context(), func(ctx context.Context, in domain.Intake) error {
		status, body = createParticipant(r.WithContext(ctx), h.participants, in)
		return nil
	})
	if errors.Is(err, wizard.ErrSubmissionInFlight) {
		writeJSON(w, http.StatusConflict, FailWith(err.Error(), "submission_in_flight"))
		return
	}
	if status == http.StatusOK {
		h.sessions.Discard(wz.ID())
		h.logger.Info("intake session submitted", zap.String("session_id", wz.ID()))
	}
	writeJSON(w, status, body)
}
