package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// 校验规则名
const (
	RuleMissingName                = "missing_name"
	RuleInvalidEmail               = "invalid_email"
	RuleMissingField               = "missing_field"
	RuleInvalidDate                = "invalid_date"
	RuleMissingSection             = "missing_section"
	RuleIncompleteEmergencyContact = "incomplete_emergency_contact"
	RuleIncompleteHealthStatus     = "incomplete_health_status"
	RuleMissingJurisdiction        = "missing_jurisdiction"
	RuleIncompleteAuthorizedPerson = "incomplete_authorized_person"
	RuleIncompleteSignature        = "incomplete_signature"
	RuleDuplicateSignature         = "duplicate_signature"
	RuleInvalidHousingLocation     = "invalid_housing_location"
	RuleInvalidInsuranceType       = "invalid_insurance_type"
	RuleInvalidJurisdiction        = "invalid_jurisdiction"
)

const dateLayout = "2006-01-02"

// ValidationError 第一条未通过的校验
// Position 只在列表类规则中使用（1 起）
type ValidationError struct {
	Rule     string `json:"rule"`
	Field    string `json:"field,omitempty"`
	Position int    `json:"position,omitempty"`
	Message  string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(rule, field, msg string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Message: msg}
}

// Normalize 提交前规范化，返回新记录，原记录不变
func Normalize(in domain.Intake) domain.Intake {
	out := in.Clone()

	out.FirstName = strings.TrimSpace(out.FirstName)
	out.LastName = strings.TrimSpace(out.LastName)
	out.IntakeDate = strings.TrimSpace(out.IntakeDate)
	out.DateOfBirth = strings.TrimSpace(out.DateOfBirth)
	out.HousingLocation = strings.ToLower(strings.TrimSpace(out.HousingLocation))
	out.Sex = strings.ToLower(strings.TrimSpace(out.Sex))
	out.Email = strings.ToLower(strings.TrimSpace(out.Email))
	out.SocialSecurityNumber = strings.TrimSpace(out.SocialSecurityNumber)
	out.DriversLicenseNumber = strings.TrimSpace(out.DriversLicenseNumber)
	out.PhoneNumber = strings.TrimSpace(out.PhoneNumber)

	if hs := out.HealthStatus; hs != nil {
		others := make([]string, 0, len(hs.Others))
		for _, o := range hs.Others {
			if o = strings.TrimSpace(o); o != "" {
				others = append(others, o)
			}
		}
		hs.Others = others
	}

	if v := out.Vehicle; v != nil {
		if !v.Insured {
			v.InsuranceType = ""
			v.PolicyNumber = ""
		}
		v.InsuranceType = strings.ToLower(strings.TrimSpace(v.InsuranceType))
		if v.InsuranceType == domain.InsuranceUninsured {
			v.PolicyNumber = ""
		}
	}

	if ec := out.EmergencyContact; ec != nil {
		ec.FirstName = strings.TrimSpace(ec.FirstName)
		ec.LastName = strings.TrimSpace(ec.LastName)
		ec.Phone = strings.TrimSpace(ec.Phone)
		ec.Relationship = strings.TrimSpace(ec.Relationship)
		ec.OtherRelationship = strings.TrimSpace(ec.OtherRelationship)
		if ec.Relationship != domain.RelationshipOther {
			ec.OtherRelationship = ""
		}
	}

	if mi := out.MedicalInformation; mi != nil && !mi.MAT {
		mi.MATMedication = ""
		mi.MATMedicationOther = ""
	}

	meds := make([]string, 0, len(out.Medications))
	for _, m := range out.Medications {
		if m = strings.TrimSpace(m); m != "" {
			meds = append(meds, m)
		}
	}
	out.Medications = meds

	people := make([]domain.AuthorizedPerson, 0, len(out.AuthorizedPeople))
	for _, p := range out.AuthorizedPeople {
		if p.IsBlank() {
			continue
		}
		p.FirstName = strings.TrimSpace(p.FirstName)
		p.LastName = strings.TrimSpace(p.LastName)
		p.Relationship = strings.TrimSpace(p.Relationship)
		p.Phone = strings.TrimSpace(p.Phone)
		people = append(people, p)
	}
	out.AuthorizedPeople = people

	if ls := out.LegalStatus; ls != nil {
		ls.Jurisdiction = strings.ToLower(strings.TrimSpace(ls.Jurisdiction))
		ls.OtherJurisdiction = strings.TrimSpace(ls.OtherJurisdiction)
		if !ls.HasProbationPretrial {
			ls.Jurisdiction = domain.JurisdictionNone
			ls.OtherJurisdiction = ""
		} else if ls.Jurisdiction != domain.JurisdictionOther {
			ls.OtherJurisdiction = ""
		}
		if !ls.IsOnBond {
			ls.BondsmanName = ""
		}
		if !ls.HasPendingCharges {
			out.PendingCharges = nil
		}
		if !ls.HasConvictions {
			out.Convictions = nil
		}
	}
	if out.PendingCharges == nil {
		out.PendingCharges = []domain.PendingCharge{}
	}
	if out.Convictions == nil {
		out.Convictions = []domain.Conviction{}
	}
	return out
}

// Validate 按固定顺序检查，返回第一条失败（*ValidationError）
// 顺序: 姓名 → email → 其余必填 → 各分区存在 → 紧急联系人 → 健康状态 → 法律状态 → 授权人 → 签名
func Validate(in domain.Intake) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalid(RuleMissingName, "firstName", "First name and last name are required")
	}
	if !strings.Contains(in.Email, "@") {
		return invalid(RuleInvalidEmail, "email", "Valid email is required")
	}

	required := []struct{ field, value, label string }{
		{"intakeDate", in.IntakeDate, "Intake date"},
		{"housingLocation", in.HousingLocation, "Housing location"},
		{"dateOfBirth", in.DateOfBirth, "Date of birth"},
		{"socialSecurityNumber", in.SocialSecurityNumber, "Social security number"},
		{"sex", in.Sex, "Sex"},
		{"driversLicenseNumber", in.DriversLicenseNumber, "Driver's license number"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(RuleMissingField, r.field, r.label+" is required")
		}
	}
	for _, d := range []struct{ field, value string }{{"intakeDate", in.IntakeDate}, {"dateOfBirth", in.DateOfBirth}} {
		if _, err := time.Parse(dateLayout, strings.TrimSpace(d.value)); err != nil {
			return invalid(RuleInvalidDate, d.field, fmt.Sprintf("Invalid date for %s: expected YYYY-MM-DD", d.field))
		}
	}

	if !slices.Contains(domain.HousingLocations, in.HousingLocation) {
		return invalid(RuleInvalidHousingLocation, "housingLocation", fmt.Sprintf("Unknown housing location %q", in.HousingLocation))
	}

	switch {
	case in.HealthStatus == nil:
		return invalid(RuleMissingSection, "healthStatus", "Health status information is required")
	case in.EmergencyContact == nil:
		return invalid(RuleMissingSection, "emergencyContact", "Emergency contact information is required")
	case in.MedicalInformation == nil:
		return invalid(RuleMissingSection, "medicalInformation", "Medical information is required")
	case in.LegalStatus == nil:
		return invalid(RuleMissingSection, "legalStatus", "Legal status information is required")
	case in.Signatures == nil:
		return invalid(RuleMissingSection, "signatures", "Signatures are required")
	}

	ec := in.EmergencyContact
	for _, f := range []struct{ field, value string }{
		{"firstName", ec.FirstName}, {"lastName", ec.LastName}, {"phone", ec.Phone}, {"relationship", ec.Relationship},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(RuleIncompleteEmergencyContact, "emergencyContact."+f.field, "Missing emergency contact "+f.field)
		}
	}
	if ec.Relationship == domain.RelationshipOther && strings.TrimSpace(ec.OtherRelationship) == "" {
		return invalid(RuleIncompleteEmergencyContact, "emergencyContact.otherRelationship", "Missing emergency contact otherRelationship")
	}

	hs := in.HealthStatus
	for _, f := range []struct{ field, value string }{
		{"race", hs.Race}, {"ethnicity", hs.Ethnicity}, {"householdIncome", hs.HouseholdIncome}, {"employmentStatus", hs.EmploymentStatus},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(RuleIncompleteHealthStatus, "healthStatus."+f.field, "Missing health status "+f.field)
		}
	}

	if v := in.Vehicle; v != nil && v.InsuranceType != "" && !slices.Contains(domain.InsuranceTypes, v.InsuranceType) {
		return invalid(RuleInvalidInsuranceType, "vehicle.insuranceType", fmt.Sprintf("Unknown insurance type %q", v.InsuranceType))
	}

	ls := in.LegalStatus
	if ls.HasProbationPretrial {
		j := strings.TrimSpace(ls.Jurisdiction)
		if j == "" || j == domain.JurisdictionNone {
			return invalid(RuleMissingJurisdiction, "legalStatus.jurisdiction", "Jurisdiction is required when on probation or pretrial")
		}
		if j == domain.JurisdictionOther && strings.TrimSpace(ls.OtherJurisdiction) == "" {
			return invalid(RuleMissingJurisdiction, "legalStatus.otherJurisdiction", "Please specify the other jurisdiction")
		}
		if !slices.Contains(domain.Jurisdictions, j) {
			return invalid(RuleInvalidJurisdiction, "legalStatus.jurisdiction", fmt.Sprintf("Unknown jurisdiction %q", j))
		}
	}

	for i, p := range in.AuthorizedPeople {
		if !p.IsComplete() {
			return &ValidationError{
				Rule:     RuleIncompleteAuthorizedPerson,
				Field:    "authorizedPeople",
				Position: i + 1,
				Message:  fmt.Sprintf("Missing information for authorized person at position %d", i+1),
			}
		}
	}

	seen := make(map[domain.SignatureType]bool, len(in.Signatures))
	for i, s := range in.Signatures {
		pos := i + 1
		switch {
		case !s.SignatureType.Valid():
			return &ValidationError{Rule: RuleIncompleteSignature, Field: "signatures", Position: pos,
				Message: fmt.Sprintf("Unknown signature type %q at position %d", s.SignatureType, pos)}
		case !s.Signed() || s.SignatureTimestamp.IsZero() || strings.TrimSpace(s.SignatureID) == "":
			return &ValidationError{Rule: RuleIncompleteSignature, Field: "signatures", Position: pos,
				Message: fmt.Sprintf("Missing signature information for %s", s.SignatureType)}
		case s.Witnessed() && (s.WitnessTimestamp == nil || strings.TrimSpace(s.WitnessSignatureID) == ""):
			return &ValidationError{Rule: RuleIncompleteSignature, Field: "signatures", Position: pos,
				Message: fmt.Sprintf("Missing witness information for %s", s.SignatureType)}
		case seen[s.SignatureType]:
			return &ValidationError{Rule: RuleDuplicateSignature, Field: "signatures", Position: pos,
				Message: fmt.Sprintf("Duplicate signature for %s", s.SignatureType)}
		}
		seen[s.SignatureType] = true
	}
	return nil
}

// PrepareSubmission Normalize + Validate
func PrepareSubmission(in domain.Intake) (domain.Intake, error) {
	out := Normalize(in)
	if err := Validate(out); err != nil {
		return out, err
	}
	return out, nil
}
