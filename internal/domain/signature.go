package domain

import (
	"strings"
	"time"
)

// SignatureType 同意/确认签名检查点类型（在 Signatures 列表中唯一）
type SignatureType string

const (
	SignatureEmergency       SignatureType = "emergency"
	SignatureMedication      SignatureType = "medication"
	SignatureDisclosure      SignatureType = "disclosure"
	SignatureTreatment       SignatureType = "treatment"
	SignaturePriceConsent    SignatureType = "price_consent"
	SignatureTenantRights    SignatureType = "tenant_rights"
	SignatureContractTerms   SignatureType = "contract_terms"
	SignatureCriminalHistory SignatureType = "criminal_history"
	SignatureEthics          SignatureType = "ethics"
	SignatureCriticalRules   SignatureType = "critical_rules"
	SignatureHouseRules      SignatureType = "house_rules"
	SignatureASAMAssessment  SignatureType = "asam_assessment"
)

// SignatureTypes 全部已知签名类型（按向导出现顺序）
var SignatureTypes = []SignatureType{
	SignatureEmergency,
	SignatureMedication,
	SignatureDisclosure,
	SignatureTreatment,
	SignaturePriceConsent,
	SignatureTenantRights,
	SignatureContractTerms,
	SignatureCriminalHistory,
	SignatureEthics,
	SignatureCriticalRules,
	SignatureHouseRules,
	SignatureASAMAssessment,
}

// Valid 是否为已知类型
func (t SignatureType) Valid() bool {
	for _, known := range SignatureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseSignatureType 解析（大小写/空白不敏感）
func ParseSignatureType(s string) (SignatureType, bool) {
	t := SignatureType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Signature 一次签名（可带见证人联署）
type Signature struct {
	SignatureType      SignatureType `json:"signatureType"`
	Signature          string        `json:"signature"`
	SignatureTimestamp time.Time     `json:"signatureTimestamp"`
	SignatureID        string        `json:"signatureId"`
	WitnessSignature   string        `json:"witnessSignature,omitempty"`
	WitnessTimestamp   *time.Time    `json:"witnessTimestamp,omitempty"`
	WitnessSignatureID string        `json:"witnessSignatureId,omitempty"`
	Agreed             *bool         `json:"agreed,omitempty"`
}

// Signed 签名文本非空
func (s Signature) Signed() bool {
	return strings.TrimSpace(s.Signature) != ""
}

// Witnessed 见证人已联署
func (s Signature) Witnessed() bool {
	return strings.TrimSpace(s.WitnessSignature) != ""
}

// Clone 拷贝指针字段
func (s Signature) Clone() Signature {
	out := s
	if s.WitnessTimestamp != nil {
		ts := *s.WitnessTimestamp
		out.WitnessTimestamp = &ts
	}
	if s.Agreed != nil {
		a := *s.Agreed
		out.Agreed = &a
	}
	return out
}

// FindSignature 按类型查找，返回下标；不存在返回 -1
func FindSignature(sigs []Signature, t SignatureType) int {
	for i := range sigs {
		if sigs[i].SignatureType == t {
			return i
		}
	}
	return -1
}
