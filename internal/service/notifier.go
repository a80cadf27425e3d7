package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	commonredis "github.com/JakeSchindel1/JHOnboard-sub001/common/redis"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
	"github.com/JakeSchindel1/JHOnboard-sub001/internal/metrics"
)

// 事件类型
const (
	EventIntakeSubmitted = "intake.submitted"
	EventPDFArchived     = "pdf.archived"
)

// SubmissionEvent 提交成功或 PDF 归档后广播的事件（不含 SSN/驾照等敏感字段）
// PDF 归档事件没有 participant_id（PDF 可在提交前生成）
type SubmissionEvent struct {
	Event           string    `json:"event"`
	ParticipantID   int64     `json:"participant_id"`
	Name            string    `json:"name"`
	IntakeDate      string    `json:"intake_date"`
	HousingLocation string    `json:"housing_location"`
	SubmittedAt     time.Time `json:"submitted_at"`
	PDFKey          string    `json:"pdf_key,omitempty"`
}

// NewSubmissionEvent 由已提交记录构造事件
func NewSubmissionEvent(id int64, in domain.Intake, at time.Time) SubmissionEvent {
	return SubmissionEvent{
		Event:           EventIntakeSubmitted,
		ParticipantID:   id,
		Name:            in.FullName(),
		IntakeDate:      in.IntakeDate,
		HousingLocation: in.HousingLocation,
		SubmittedAt:     at.UTC(),
	}
}

// NewPDFArchivedEvent PDF 已归档到对象存储
func NewPDFArchivedEvent(in domain.Intake, key string, at time.Time) SubmissionEvent {
	return SubmissionEvent{
		Event:           EventPDFArchived,
		Name:            in.FullName(),
		IntakeDate:      in.IntakeDate,
		HousingLocation: in.HousingLocation,
		SubmittedAt:     at.UTC(),
		PDFKey:          key,
	}
}

// Notifier 下游通知
type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev SubmissionEvent) error
}

// WebhookNotifier POST 事件 JSON 到工作流地址
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &WebhookNotifier{httpClient: client, url: url}
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Notify(ctx context.Context, ev SubmissionEvent) error {
	resp, err := n.httpClient.R().SetContext(ctx).SetBody(ev).Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Publisher MQTT 发布接口（common/mqtt.Client 满足）
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
}

// MQTTNotifier 发布事件到 MQTT 主题
type MQTTNotifier struct {
	pub   Publisher
	topic string
}

func NewMQTTNotifier(pub Publisher, topic string) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, topic: topic}
}

func (n *MQTTNotifier) Name() string { return "mqtt" }

func (n *MQTTNotifier) Notify(_ context.Context, ev SubmissionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := n.pub.Publish(n.topic, n.pub.QoS(), false, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.topic, err)
	}
	return nil
}

// StreamNotifier 写入 Redis Stream
type StreamNotifier struct {
	client commonredis.StreamAdder
	stream string
	maxLen int64
}

func NewStreamNotifier(client commonredis.StreamAdder, stream string, maxLen int64) *StreamNotifier {
	return &StreamNotifier{client: client, stream: stream, maxLen: maxLen}
}

func (n *StreamNotifier) Name() string { return "redis_stream" }

func (n *StreamNotifier) Notify(ctx context.Context, ev SubmissionEvent) error {
	if _, err := commonredis.PublishJSONToStream(ctx, n.client, n.stream, n.maxLen, ev); err != nil {
		return fmt.Errorf("failed to add to stream %s: %w", n.stream, err)
	}
	return nil
}

// Notifiers 顺序调用全部通知器；失败只记日志，不影响提交结果
type Notifiers struct {
	list    []Notifier
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewNotifiers(logger *zap.Logger, m *metrics.Metrics, list ...Notifier) *Notifiers {
	return &Notifiers{list: list, logger: logger, metrics: m}
}

// Add 追加通知器
func (n *Notifiers) Add(nt Notifier) { n.list = append(n.list, nt) }

// Len 通知器数量
func (n *Notifiers) Len() int { return len(n.list) }

// NotifyAll 返回失败数
func (n *Notifiers) NotifyAll(ctx context.Context, ev SubmissionEvent) int {
	failed := 0
	for _, nt := range n.list {
		if err := nt.Notify(ctx, ev); err != nil {
			failed++
			n.metrics.ObserveNotification(nt.Name(), "error")
			n.logger.Warn("Submission notification failed",
				zap.String("notifier", nt.Name()),
				zap.String("event", ev.Event),
				zap.Int64("participant_id", ev.ParticipantID),
				zap.Error(err),
			)
			continue
		}
		n.metrics.ObserveNotification(nt.Name(), "ok")
	}
	return failed
}
