package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// SubmitPath 提交接口路径
const SubmitPath = "/api/submit"

// SubmitErrorKind 提交失败分类
type SubmitErrorKind string

const (
	KindTransport     SubmitErrorKind = "transport"      // 网络/超时
	KindHTTP          SubmitErrorKind = "http"           // 非 2xx
	KindEmptyResponse SubmitErrorKind = "empty_response" // 2xx 但响应体为空
	KindDecode        SubmitErrorKind = "decode"         // 响应体不是预期 JSON
	KindRejected      SubmitErrorKind = "rejected"       // success=false
)

// SubmitError 提交失败；Body 为服务端原始响应
type SubmitError struct {
	Kind    SubmitErrorKind
	Status  int
	Body    string
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return "API request failed: " + e.Body
	case KindEmptyResponse:
		return fmt.Sprintf("empty response from server (status %d)", e.Status)
	case KindDecode:
		return fmt.Sprintf("invalid response from server: %v", e.Err)
	case KindRejected:
		if e.Message == "" {
			return "submission rejected by server"
		}
		return e.Message
	default:
		return fmt.Sprintf("failed to reach submission API: %v", e.Err)
	}
}

func (e *SubmitError) Unwrap() error { return e.Err }

// SubmitResponseData /api/submit 成功时的 data
type SubmitResponseData struct {
	Name          string `json:"name"`
	IntakeDate    string `json:"intake_date"`
	ParticipantID int64  `json:"participant_id"`
}

// SubmitResponse /api/submit 响应体
type SubmitResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *SubmitResponseData `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// SubmitResult 客户端统一结果
type SubmitResult struct {
	Success       bool                `json:"success"`
	ParticipantID int64               `json:"participantId"`
	Message       string              `json:"message"`
	Data          *SubmitResponseData `json:"data,omitempty"`
}

// Submitter 提交管道接口（向导/CLI 依赖）
type Submitter interface {
	Submit(ctx context.Context, in domain.Intake) (*SubmitResult, error)
}

// SubmissionClient 把一份 Intake 提交到 /api/submit
// 只发一次请求，不重试
type SubmissionClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewSubmissionClient 创建提交客户端
func NewSubmissionClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SubmissionClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &SubmissionClient{httpClient: client, logger: logger}
}

var _ Submitter = (*SubmissionClient)(nil)

// Submit 规范化 + 校验后提交；校验失败返回 *ValidationError 且不发请求
func (c *SubmissionClient) Submit(ctx context.Context, in domain.Intake) (*SubmitResult, error) {
	prepared, err := PrepareSubmission(in)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Submitting intake",
		zap.String("name", prepared.FullName()),
		zap.Any("payload", RedactIntake(prepared)),
	)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(prepared).
		Post(SubmitPath)
	if err != nil {
		c.logger.Error("Submission request failed", zap.Error(err))
		return nil, &SubmitError{Kind: KindTransport, Err: err}
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		c.logger.Error("Submission API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", RedactJSON(body)),
		)
		return nil, &SubmitError{Kind: KindHTTP, Status: resp.StatusCode(), Body: string(body)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &SubmitError{Kind: KindEmptyResponse, Status: resp.StatusCode()}
	}

	var sr SubmitResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &SubmitError{Kind: KindDecode, Status: resp.StatusCode(), Body: string(body), Err: err}
	}
	if !sr.Success {
		return nil, &SubmitError{Kind: KindRejected, Status: resp.StatusCode(), Body: string(body), Message: sr.Message}
	}

	result := &SubmitResult{
		Success: true,
		Message: "Participant data submitted successfully",
		Data:    sr.Data,
	}
	if sr.Data != nil {
		result.ParticipantID = sr.Data.ParticipantID
	}
	c.logger.Info("Intake submitted", zap.Int64("participant_id", result.ParticipantID))
	return result, nil
}
