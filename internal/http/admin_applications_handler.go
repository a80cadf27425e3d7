package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/repository"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

const (
	adminApplicationsPrefix = "/admin/api/v1/applications"
	exportPageSize          = 500
	xlsxContentType         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AdminApplicationsHandler 管理端：已提交申请
type AdminApplicationsHandler struct {
	participants service.ParticipantService
	logger       *zap.Logger
	now          func() time.Time
}

func NewAdminApplicationsHandler(participants service.ParticipantService, logger *zap.Logger) *AdminApplicationsHandler {
	return &AdminApplicationsHandler{participants: participants, logger: logger, now: time.Now}
}

func (h *AdminApplicationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	seg := pathSegments(r.URL.Path, adminApplicationsPrefix)
	switch {
	case len(seg) == 0:
		h.list(w, r)
	case len(seg) == 1 && seg[0] == "export":
		h.export(w, r)
	case len(seg) == 1:
		h.get(w, r, seg[0])
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *AdminApplicationsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.participants.ListParticipants(r.Context(), service.ListParticipantsRequest{
		HousingLocation: q.Get("housing_location"),
		Search:          q.Get("search"),
		Page:            parseInt(q.Get("page"), 1),
		Size:            parseInt(q.Get("size"), 50),
	})
	if err != nil {
		h.logger.Error("Failed to list applications", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list applications"))
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", resp))
}

func (h *AdminApplicationsHandler) get(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("invalid participant id"))
		return
	}
	detail, err := h.participants.GetParticipant(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("participant not found"))
			return
		}
		h.logger.Error("Failed to load application", zap.Int64("participant_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load application"))
		return
	}
	writeJSON(w, http.StatusOK, Ok("ok", detail))
}

func (h *AdminApplicationsHandler) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var items []repository.ParticipantSummary
	for page := 1; ; page++ {
		resp, err := h.participants.ListParticipants(r.Context(), service.ListParticipantsRequest{
			HousingLocation: q.Get("housing_location"),
			Search:          q.Get("search"),
			Page:            page,
			Size:            exportPageSize,
		})
		if err != nil {
			h.logger.Error("Failed to list applications for export", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to export applications"))
			return
		}
		items = append(items, resp.Items...)
		if len(resp.Items) < exportPageSize || len(items) >= resp.Total {
			break
		}
	}

	data, err := GenerateApplicationsExport(items)
	if err != nil {
		h.logger.Error("Failed to generate applications export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to export applications"))
		return
	}
	fileName := fmt.Sprintf("applications_%s.xlsx", h.now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
