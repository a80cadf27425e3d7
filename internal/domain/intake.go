package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Intake 参与者入住申请聚合记录（向导各步骤共同编辑，一次性提交）
// JSON 字段名与 /api/submit 的请求体保持一致
type Intake struct {
	// 个人信息
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	IntakeDate           string `json:"intakeDate"`      // YYYY-MM-DD
	HousingLocation      string `json:"housingLocation"` // 小写代码，如 "hawthorne"
	DateOfBirth          string `json:"dateOfBirth"`     // YYYY-MM-DD
	SocialSecurityNumber string `json:"socialSecurityNumber"`
	Sex                  string `json:"sex"`
	Email                string `json:"email"`
	DriversLicenseNumber string `json:"driversLicenseNumber"`
	PhoneNumber          string `json:"phoneNumber,omitempty"`

	HealthStatus       *HealthStatus       `json:"healthStatus"`
	Vehicle            *VehicleInformation `json:"vehicle,omitempty"`
	EmergencyContact   *EmergencyContact   `json:"emergencyContact"`
	MedicalInformation *MedicalInformation `json:"medicalInformation"`
	Medications        []string            `json:"medications"`
	AuthorizedPeople   []AuthorizedPerson  `json:"authorizedPeople"`
	LegalStatus        *LegalStatus        `json:"legalStatus"`
	PendingCharges     []PendingCharge     `json:"pendingCharges"`
	Convictions        []Conviction        `json:"convictions"`
	Signatures         []Signature         `json:"signatures"`
}

// VehicleInformation 车辆及保险信息（可选）
type VehicleInformation struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	TagNumber     string `json:"tagNumber"`
	Insured       bool   `json:"insured"`
	InsuranceType string `json:"insuranceType"`
	PolicyNumber  string `json:"policyNumber"`
}

// EmergencyContact 紧急联系人
type EmergencyContact struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Phone             string `json:"phone"`
	Relationship      string `json:"relationship"`
	OtherRelationship string `json:"otherRelationship"`
}

// MedicalInformation 医疗信息
type MedicalInformation struct {
	DualDiagnosis       bool   `json:"dualDiagnosis"`
	MAT                 bool   `json:"mat"`
	MATMedication       string `json:"matMedication"`
	MATMedicationOther  string `json:"matMedicationOther"`
	NeedPsychMedication bool   `json:"needPsychMedication"`
}

// HealthStatus 健康/人口统计状态
// 布尔标记使用 Flag，解码时宽松（null/"yes"/1 等），提交时一律为严格布尔值
type HealthStatus struct {
	Pregnant                Flag     `json:"pregnant"`
	DevelopmentallyDisabled Flag     `json:"developmentallyDisabled"`
	CoOccurringDisorder     Flag     `json:"coOccurringDisorder"`
	DocSupervision          Flag     `json:"docSupervision"`
	Felon                   Flag     `json:"felon"`
	PhysicallyHandicapped   Flag     `json:"physicallyHandicapped"`
	PostPartum              Flag     `json:"postPartum"`
	PrimaryFemaleCaregiver  Flag     `json:"primaryFemaleCaregiver"`
	RecentlyIncarcerated    Flag     `json:"recentlyIncarcerated"`
	SexOffender             Flag     `json:"sexOffender"`
	LGBTQ                   Flag     `json:"lgbtq"`
	Veteran                 Flag     `json:"veteran"`
	InsulinDependent        Flag     `json:"insulinDependent"`
	HistoryOfSeizures       Flag     `json:"historyOfSeizures"`
	Others                  []string `json:"others"`
	Race                    string   `json:"race"`
	Ethnicity               string   `json:"ethnicity"`
	HouseholdIncome         string   `json:"householdIncome"`
	EmploymentStatus        string   `json:"employmentStatus"`
}

// LegalStatus 法律状态
type LegalStatus struct {
	HasProbationPretrial bool   `json:"hasProbationPretrial"`
	Jurisdiction         string `json:"jurisdiction"`
	OtherJurisdiction    string `json:"otherJurisdiction"`
	HasPendingCharges    bool   `json:"hasPendingCharges"`
	HasConvictions       bool   `json:"hasConvictions"`
	IsWanted             bool   `json:"isWanted"`
	IsOnBond             bool   `json:"isOnBond"`
	BondsmanName         string `json:"bondsmanName"`
	IsSexOffender        bool   `json:"isSexOffender"`
}

// PendingCharge 未决指控
type PendingCharge struct {
	ChargeDescription string `json:"chargeDescription"`
	Location          string `json:"location"`
}

// Conviction 定罪记录
type Conviction struct {
	Offense string `json:"offense"`
}

// AuthorizedPerson 授权探视人
type AuthorizedPerson struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// IsBlank 四个字段全部为空（表单中未填写的空行）
func (p AuthorizedPerson) IsBlank() bool {
	return strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" &&
		strings.TrimSpace(p.Relationship) == "" && strings.TrimSpace(p.Phone) == ""
}

// IsComplete 四个字段全部非空
func (p AuthorizedPerson) IsComplete() bool {
	return strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.LastName) != "" &&
		strings.TrimSpace(p.Relationship) != "" && strings.TrimSpace(p.Phone) != ""
}

const (
	JurisdictionNone  = "none"
	JurisdictionOther = "other"

	RelationshipOther = "other"

	InsuranceUninsured = "uninsured"
)

// Jurisdictions 可选辖区
var Jurisdictions = []string{"henrico", "chesterfield", "richmond", JurisdictionOther, JurisdictionNone}

// HousingLocations 可选住房地点代码
var HousingLocations = []string{
	"hawthorne", "cottage", "packard", "pathfinder", "sherwin",
	"colebrook", "broad_meadows", "lakeside", "sleepy_hollow", "stoneman",
}

// InsuranceTypes 可选保险类型
var InsuranceTypes = []string{InsuranceUninsured, "private", "medicare", "medicaid"}

// FullName "First Last"
func (in Intake) FullName() string {
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}

// Clone 深拷贝：嵌套指针与切片都复制，修改副本不影响原记录
func (in Intake) Clone() Intake {
	out := in
	if in.HealthStatus != nil {
		hs := *in.HealthStatus
		hs.Others = cloneSlice(in.HealthStatus.Others)
		out.HealthStatus = &hs
	}
	if in.Vehicle != nil {
		v := *in.Vehicle
		out.Vehicle = &v
	}
	if in.EmergencyContact != nil {
		ec := *in.EmergencyContact
		out.EmergencyContact = &ec
	}
	if in.MedicalInformation != nil {
		mi := *in.MedicalInformation
		out.MedicalInformation = &mi
	}
	if in.LegalStatus != nil {
		ls := *in.LegalStatus
		out.LegalStatus = &ls
	}
	out.Medications = cloneSlice(in.Medications)
	out.AuthorizedPeople = cloneSlice(in.AuthorizedPeople)
	out.PendingCharges = cloneSlice(in.PendingCharges)
	out.Convictions = cloneSlice(in.Convictions)
	if in.Signatures != nil {
		out.Signatures = make([]Signature, len(in.Signatures))
		for i, s := range in.Signatures {
			out.Signatures[i] = s.Clone()
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Flag 宽松解码的布尔值：接受 true/false/null、"true"/"yes"/"on"/"1"、数字
type Flag bool

// UnmarshalJSON 实现 json.Unmarshaler
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}
	switch b[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flag(v)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "on", "1":
			*f = true
		default:
			*f = false
		}
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}
