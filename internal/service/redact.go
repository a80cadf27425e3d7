package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// Redacted 日志中替代敏感值的占位
const Redacted = "[REDACTED]"

// RedactIntake 日志视图：SSN、驾照号、签名文本替换为占位
func RedactIntake(in domain.Intake) domain.Intake {
	out := in.Clone()
	if out.SocialSecurityNumber != "" {
		out.SocialSecurityNumber = Redacted
	}
	if out.DriversLicenseNumber != "" {
		out.DriversLicenseNumber = Redacted
	}
	for i := range out.Signatures {
		if out.Signatures[i].Signature != "" {
			out.Signatures[i].Signature = Redacted
		}
		if out.Signatures[i].WitnessSignature != "" {
			out.Signatures[i].WitnessSignature = Redacted
		}
	}
	return out
}

// sensitiveKeys 任意 JSON 中按键名（小写、去下划线）脱敏
var sensitiveKeys = map[string]bool{
	"password": true, "token": true, "secret": true, "socialsecuritynumber": true, "ssn": true,
	"driverslicense": true, "driverslicensenumber": true, "creditcard": true,
	"signature": true, "witnesssignature": true,
}

func isSensitiveKey(k string) bool {
	return sensitiveKeys[strings.ToLower(strings.ReplaceAll(k, "_", ""))]
}

// RedactJSON 对任意 JSON 文本脱敏；无法解析时返回原文长度说明而不是原文
func RedactJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "<non-json body, " + strconv.Itoa(len(raw)) + " bytes>"
	}
	b, err := json.Marshal(redactValue(v))
	if err != nil {
		return Redacted
	}
	return string(b)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isSensitiveKey(k) {
				if _, isMap := val.(map[string]any); !isMap {
					t[k] = Redacted
					continue
				}
			}
			t[k] = redactValue(val)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}
