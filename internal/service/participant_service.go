package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/metrics"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/repository"
)

const (
	MsgParticipantSaved  = "Participant data saved successfully"
	MsgParticipantFailed = "Failed to create participant record"
)

// ParticipantService 参与者入住服务接口
type ParticipantService interface {
	// 提交（事务写入 + 提交后通知）
	CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*CreateParticipantResponse, error)

	// 管理端查询
	ListParticipants(ctx context.Context, req ListParticipantsRequest) (*ListParticipantsResponse, error)
	GetParticipant(ctx context.Context, id int64) (*repository.ParticipantDetail, error)
}

// CreateParticipantRequest 提交请求
type CreateParticipantRequest struct {
	Intake domain.Intake
}

// CreateParticipantResponse 提交结果
// 失败时 Error 只包含脱敏后的原因，不含请求数据
type CreateParticipantResponse struct {
	Success    bool          `json:"success"`
	ResidentID int64         `json:"residentId,omitempty"`
	Message    string        `json:"message"`
	Error      string        `json:"error,omitempty"`
	Intake     domain.Intake `json:"-"` // 规范化后的记录
}

// ListParticipantsRequest 列表请求
type ListParticipantsRequest struct {
	HousingLocation string
	Search          string
	Page            int
	Size            int
}

// ListParticipantsResponse 列表响应
type ListParticipantsResponse struct {
	Items []repository.ParticipantSummary `json:"items"`
	Total int                             `json:"total"`
	Page  int                             `json:"page"`
	Size  int                             `json:"size"`
}

// participantService 实现
type participantService struct {
	repo      repository.ParticipantsRepository
	notifiers *Notifiers
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewParticipantService 创建 ParticipantService；notifiers / m 可为 nil
func NewParticipantService(repo repository.ParticipantsRepository, notifiers *Notifiers, m *metrics.Metrics, logger *zap.Logger) ParticipantService {
	if notifiers == nil {
		notifiers = NewNotifiers(logger, m)
	}
	return &participantService{repo: repo, notifiers: notifiers, metrics: m, logger: logger, now: time.Now}
}

// CreateParticipant 校验失败返回 *ValidationError；写库失败时事务已回滚
func (s *participantService) CreateParticipant(ctx context.Context, req CreateParticipantRequest) (*CreateParticipantResponse, error) {
	start := s.now()
	in, err := PrepareSubmission(req.Intake)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			s.metrics.ObserveSubmission("validation_error", s.now().Sub(start))
			s.logger.Info("Intake rejected by validation",
				zap.String("rule", ve.Rule),
				zap.String("field", ve.Field),
				zap.Int("position", ve.Position),
			)
		}
		return &CreateParticipantResponse{Success: false, Message: err.Error(), Intake: in}, err
	}

	id, err := s.repo.CreateParticipant(ctx, in)
	if err != nil {
		s.metrics.ObserveSubmission("persistence_error", s.now().Sub(start))
		s.logger.Error("Failed to persist intake",
			zap.String("name", in.FullName()),
			zap.Error(err),
		)
		return &CreateParticipantResponse{
			Success: false,
			Message: MsgParticipantFailed,
			Error:   err.Error(),
			Intake:  in,
		}, err
	}
	s.metrics.ObserveSubmission("success", s.now().Sub(start))
	s.logger.Info("Intake persisted", zap.Int64("resident_id", id))

	if s.notifiers.Len() > 0 {
		s.notifiers.NotifyAll(ctx, NewSubmissionEvent(id, in, s.now()))
	}

	return &CreateParticipantResponse{
		Success:    true,
		ResidentID: id,
		Message:    MsgParticipantSaved,
		Intake:     in,
	}, nil
}

func (s *participantService) ListParticipants(ctx context.Context, req ListParticipantsRequest) (*ListParticipantsResponse, error) {
	page, size := req.Page, req.Size
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 500 {
		size = 50
	}
	items, total, err := s.repo.ListParticipants(ctx, repository.ParticipantFilters{
		HousingLocation: req.HousingLocation,
		Search:          req.Search,
	}, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	return &ListParticipantsResponse{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *participantService) GetParticipant(ctx context.Context, id int64) (*repository.ParticipantDetail, error) {
	return s.repo.GetParticipant(ctx, id)
}
