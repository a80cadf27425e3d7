package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/blob"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/metrics"
)

// PDFGenerator PDF 生成接口（PDFClient 满足）
type PDFGenerator interface {
	Generate(ctx context.Context, in domain.Intake) ([]byte, error)
}

// PDFResult 生成结果
type PDFResult struct {
	PDF        []byte
	FileName   string
	ArchiveKey string // 未归档或归档失败时为空
}

// PDFService 生成 PDF 并可选归档到对象存储
type PDFService struct {
	generator PDFGenerator
	archive   blob.Archive
	metrics   *metrics.Metrics
	notifiers *Notifiers
	logger    *zap.Logger
	now       func() time.Time
}

// NewPDFService archive 为 nil 时不归档
func NewPDFService(generator PDFGenerator, archive blob.Archive, m *metrics.Metrics, logger *zap.Logger) *PDFService {
	return &PDFService{generator: generator, archive: archive, metrics: m, logger: logger, now: time.Now}
}

// WithNotifiers 归档成功后广播 pdf.archived
func (s *PDFService) WithNotifiers(n *Notifiers) *PDFService {
	s.notifiers = n
	return s
}

// Generate 归档失败只记日志
func (s *PDFService) Generate(ctx context.Context, in domain.Intake) (*PDFResult, error) {
	start := s.now()
	pdf, err := s.generator.Generate(ctx, in)
	if err != nil {
		s.metrics.ObservePDF(pdfResultLabel(err), s.now().Sub(start))
		return nil, err
	}
	s.metrics.ObservePDF("success", s.now().Sub(start))

	res := &PDFResult{PDF: pdf, FileName: PDFFileName(in)}
	if s.archive != nil {
		key, err := s.archive.PutPDF(ctx, blob.ArchiveKey(s.now(), res.FileName), pdf)
		if err != nil {
			s.logger.Warn("Failed to archive PDF", zap.String("file_name", res.FileName), zap.Error(err))
		} else {
			res.ArchiveKey = key
			if s.notifiers != nil && s.notifiers.Len() > 0 {
				s.notifiers.NotifyAll(ctx, NewPDFArchivedEvent(in, key, s.now()))
			}
		}
	}
	return res, nil
}

func pdfResultLabel(err error) string {
	var ve *ValidationError
	var ue *PDFUpstreamError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, ErrEmptyPDF):
		return "empty"
	case errors.As(err, &ue):
		return "upstream_error"
	default:
		return "error"
	}
}
