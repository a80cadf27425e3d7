package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// DefaultPDFTimeout PDF 生成的客户端超时
const DefaultPDFTimeout = 2 * time.Minute

var (
	// ErrEmptyPDF 上游返回了空文档
	ErrEmptyPDF = errors.New("received empty PDF from generator")
	// ErrPDFNotConfigured 未配置 PDF 生成地址
	ErrPDFNotConfigured = errors.New("pdf function url not configured")
)

// PDFUpstreamError 上游非 2xx
type PDFUpstreamError struct {
	Status int
	Detail string
}

func (e *PDFUpstreamError) Error() string {
	return fmt.Sprintf("pdf generation failed with status %d: %s", e.Status, e.Detail)
}

// PDFClient 调用外部 PDF 生成函数
type PDFClient struct {
	httpClient  *resty.Client
	functionURL string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPDFClient 创建 PDF 客户端
func NewPDFClient(functionURL string, timeout time.Duration, logger *zap.Logger) *PDFClient {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/pdf")
	return &PDFClient{httpClient: client, functionURL: functionURL, logger: logger, now: time.Now}
}

// Generate 生成 PDF
// 请求体为 Intake JSON 加 documentType 与 _requestTimestamp
func (c *PDFClient) Generate(ctx context.Context, in domain.Intake) ([]byte, error) {
	if c.functionURL == "" {
		return nil, ErrPDFNotConfigured
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, invalid(RuleMissingName, "firstName", "First name and last name are required")
	}

	payload, err := pdfPayload(in, c.now())
	if err != nil {
		return nil, err
	}

	start := c.now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.functionURL)
	if err != nil {
		c.logger.Error("PDF function call failed", zap.Error(err))
		return nil, fmt.Errorf("failed to call pdf function: %w", err)
	}
	if !resp.IsSuccess() {
		c.logger.Error("PDF function returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", RedactJSON(resp.Body())),
		)
		return nil, &PDFUpstreamError{Status: resp.StatusCode(), Detail: string(resp.Body())}
	}
	pdf := resp.Body()
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}
	c.logger.Info("PDF generated",
		zap.Int("bytes", len(pdf)),
		zap.Duration("elapsed", c.now().Sub(start)),
	)
	return pdf, nil
}

func pdfPayload(in domain.Intake, now time.Time) (map[string]any, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode intake: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to encode intake: %w", err)
	}
	m["documentType"] = "intake_form"
	m["_requestTimestamp"] = now.UnixMilli()
	return m, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PDFFileName "<Last><First>_Intake.pdf"
func PDFFileName(in domain.Intake) string {
	last := unsafeFileChars.ReplaceAllString(strings.TrimSpace(in.LastName), "")
	first := unsafeFileChars.ReplaceAllString(strings.TrimSpace(in.FirstName), "")
	return last + first + "_Intake.pdf"
}
