package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// ErrParticipantNotFound 参与者不存在
var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantsRepository 参与者入住记录 Repository 接口
// CreateParticipant 在一个事务内写入 resident 及全部从属记录，任一步失败整体回滚
type ParticipantsRepository interface {
	CreateParticipant(ctx context.Context, intake domain.Intake) (int64, error)

	// 管理端查询
	ListParticipants(ctx context.Context, filters ParticipantFilters, limit, offset int) ([]ParticipantSummary, int, error)
	GetParticipant(ctx context.Context, id int64) (*ParticipantDetail, error)
}

// ParticipantFilters 列表过滤
type ParticipantFilters struct {
	HousingLocation string
	Search          string // 按 first_name / last_name 模糊匹配
}

// ParticipantSummary 列表行（不含 SSN/驾照等敏感字段）
type ParticipantSummary struct {
	ID              int64     `json:"participant_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	IntakeDate      string    `json:"intake_date"`
	HousingLocation string    `json:"housing_location"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"created_at"`
}

// ParticipantDetail 单条详情：摘要 + 紧急联系人 + 从属记录计数
type ParticipantDetail struct {
	ParticipantSummary
	DateOfBirth         string                   `json:"date_of_birth"`
	Sex                 string                   `json:"sex"`
	PhoneNumber         string                   `json:"phone_number,omitempty"`
	EmergencyContact    *domain.EmergencyContact `json:"emergency_contact,omitempty"`
	HasVehicle          bool                     `json:"has_vehicle"`
	MedicationCount     int                      `json:"medication_count"`
	AuthorizedPeopleCnt int                      `json:"authorized_people_count"`
	PendingChargeCount  int                      `json:"pending_charge_count"`
	ConvictionCount     int                      `json:"conviction_count"`
	SignatureTypes      []domain.SignatureType   `json:"signature_types"`
}
