package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

// PDFHandler POST /api/pdf
type PDFHandler struct {
	pdf    *service.PDFService
	logger *zap.Logger
}

func NewPDFHandler(pdf *service.PDFService, logger *zap.Logger) *PDFHandler {
	return &PDFHandler{pdf: pdf, logger: logger}
}

func (h *PDFHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in domain.Intake
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	res, err := h.pdf.Generate(r.Context(), in)
	if err != nil {
		var ve *service.ValidationError
		var ue *service.PDFUpstreamError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, FailWith(ve.Message, ve.Rule))
		case errors.As(err, &ue):
			writeJSON(w, ue.Status, FailWith("PDF generation failed", ue.Detail))
		case errors.Is(err, service.ErrEmptyPDF):
			writeJSON(w, http.StatusInternalServerError, Fail("Received empty PDF"))
		case errors.Is(err, service.ErrPDFNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, Fail("PDF generation is not configured"))
		default:
			h.logger.Error("PDF generation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, FailWith("PDF generation failed", errorSummary(err)))
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	if res.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", res.ArchiveKey)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}
