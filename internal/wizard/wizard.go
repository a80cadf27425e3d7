package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

var (
	// ErrSubmissionInFlight 同一会话已有提交在进行
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrWitnessBeforeSignature 参与者签名前不能见证
	ErrWitnessBeforeSignature = errors.New("witness signature requires participant signature")
	// ErrUnknownSignatureType 未知签名类型
	ErrUnknownSignatureType = errors.New("unknown signature type")
	// ErrEmptySignature 签名文本为空
	ErrEmptySignature = errors.New("signature text is empty")
)

// Wizard 单个向导会话的状态持有者
// 页面只能通过 Apply / SetField / UpsertSignature 系列方法修改记录
type Wizard struct {
	mu         sync.Mutex
	id         string
	intake     domain.Intake
	progress   *Progress
	submitting bool
	lastActive time.Time
	now        func() time.Time
}

// New 创建会话，intakeDate 默认为今天
func New(id string, now func() time.Time) *Wizard {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &Wizard{
		id:         id,
		intake:     NewIntake(t),
		progress:   NewProgress(PageCount()),
		lastActive: t,
		now:        now,
	}
}

// NewIntake 带默认值的空记录
func NewIntake(today time.Time) domain.Intake {
	return domain.Intake{
		IntakeDate:       today.Format("2006-01-02"),
		Medications:      []string{},
		AuthorizedPeople: []domain.AuthorizedPerson{},
		PendingCharges:   []domain.PendingCharge{},
		Convictions:      []domain.Conviction{},
		Signatures:       []domain.Signature{},
	}
}

func (w *Wizard) ID() string { return w.id }

// Intake 当前记录快照
func (w *Wizard) Intake() domain.Intake {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.intake.Clone()
}

// LastActive 最近一次操作时间
func (w *Wizard) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

func (w *Wizard) touch() { w.lastActive = w.now() }

// Apply 应用字段修改
func (w *Wizard) Apply(updates ...Update) domain.Intake {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.intake = Apply(w.intake, updates...)
	w.touch()
	return w.intake.Clone()
}

// SetField 按名称写入 JSON 值（HTTP 边界）
func (w *Wizard) SetField(name string, raw json.RawMessage) (domain.Intake, error) {
	f, err := Lookup(name)
	if err != nil {
		return domain.Intake{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := f.ApplyJSON(w.intake, raw)
	if err != nil {
		return domain.Intake{}, err
	}
	w.intake = next
	w.touch()
	return w.intake.Clone(), nil
}

// UpsertSignature 整条替换或追加签名
func (w *Wizard) UpsertSignature(sig domain.Signature) (domain.Intake, error) {
	if !sig.SignatureType.Valid() {
		return domain.Intake{}, fmt.Errorf("%w: %q", ErrUnknownSignatureType, sig.SignatureType)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.intake = UpsertSignature(w.intake, sig)
	w.touch()
	return w.intake.Clone(), nil
}

// Sign 参与者签名：生成 signatureId 与时间戳，保留已有见证信息
func (w *Wizard) Sign(t domain.SignatureType, text string, agreed *bool) (domain.Signature, error) {
	if !t.Valid() {
		return domain.Signature{}, fmt.Errorf("%w: %q", ErrUnknownSignatureType, t)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Signature{}, ErrEmptySignature
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	sig := domain.Signature{SignatureType: t}
	if i := domain.FindSignature(w.intake.Signatures, t); i >= 0 {
		sig = w.intake.Signatures[i].Clone()
	}
	sig.Signature = text
	sig.SignatureTimestamp = w.now().UTC()
	sig.SignatureID = uuid.NewString()
	if agreed != nil {
		a := *agreed
		sig.Agreed = &a
	}
	w.intake = UpsertSignature(w.intake, sig)
	w.touch()
	return sig.Clone(), nil
}

// Witness 见证人联署，要求参与者已签名
func (w *Wizard) Witness(t domain.SignatureType, text string) (domain.Signature, error) {
	if !t.Valid() {
		return domain.Signature{}, fmt.Errorf("%w: %q", ErrUnknownSignatureType, t)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Signature{}, ErrEmptySignature
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	i := domain.FindSignature(w.intake.Signatures, t)
	if i < 0 || !w.intake.Signatures[i].Signed() {
		return domain.Signature{}, ErrWitnessBeforeSignature
	}
	sig := w.intake.Signatures[i].Clone()
	ts := w.now().UTC()
	sig.WitnessSignature = text
	sig.WitnessTimestamp = &ts
	sig.WitnessSignatureID = uuid.NewString()
	w.intake = UpsertSignature(w.intake, sig)
	w.touch()
	return sig.Clone(), nil
}

// ProgressView 进度快照
type ProgressView struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Page    Page    `json:"page"`
}

func (w *Wizard) view() ProgressView {
	page, _ := PageAt(w.progress.Current())
	return ProgressView{
		Current: w.progress.Current(),
		Total:   w.progress.Total(),
		Percent: w.progress.Percent(),
		Page:    page,
	}
}

// Progress 当前进度
func (w *Wizard) Progress() ProgressView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view()
}

// Next 前进一页
func (w *Wizard) Next() (ProgressView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	moved := w.progress.Next()
	w.touch()
	return w.view(), moved
}

// Back 后退一页
func (w *Wizard) Back() (ProgressView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	moved := w.progress.Back()
	w.touch()
	return w.view(), moved
}

// GoTo 跳转
func (w *Wizard) GoTo(n int) (ProgressView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.progress.GoTo(n); err != nil {
		return w.view(), err
	}
	w.touch()
	return w.view(), nil
}

// Submit 以当前快照调用 fn；同一会话同时只允许一个提交
// fn 期间记录仍可编辑，提交的是调用时刻的快照
func (w *Wizard) Submit(ctx context.Context, fn func(context.Context, domain.Intake) error) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	w.submitting = true
	snapshot := w.intake.Clone()
	w.touch()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()
	return fn(ctx, snapshot)
}

// Submitting 是否有提交在进行
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}
