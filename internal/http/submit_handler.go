package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

// SubmitHandler POST /api/submit
type SubmitHandler struct {
	participants service.ParticipantService
	logger       *zap.Logger
}

func NewSubmitHandler(participants service.ParticipantService, logger *zap.Logger) *SubmitHandler {
	return &SubmitHandler{participants: participants, logger: logger}
}

func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in domain.Intake
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	status, body := createParticipant(r, h.participants, in)
	writeJSON(w, status, body)
}

// createParticipant 提交并映射为 HTTP 状态与响应体；向导提交复用
func createParticipant(r *http.Request, participants service.ParticipantService, in domain.Intake) (int, any) {
	resp, err := participants.CreateParticipant(r.Context(), service.CreateParticipantRequest{Intake: in})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return http.StatusBadRequest, FailWith(ve.Message, ve.Rule)
		}
		return http.StatusInternalServerError, FailWith(service.MsgParticipantFailed, errorSummary(err))
	}
	return http.StatusOK, Ok(resp.Message, service.SubmitResponseData{
		Name:          resp.Intake.FullName(),
		IntakeDate:    resp.Intake.IntakeDate,
		ParticipantID: resp.ResidentID,
	})
}
