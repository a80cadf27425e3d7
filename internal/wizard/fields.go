package wizard

import (
	"fmt"
	"slices"
	"sort"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// section 一个嵌套实体：get 可能返回 nil，ensure 在缺失时创建
type section[S any] struct {
	name   string
	get    func(*domain.Intake) *S
	ensure func(*domain.Intake) *S
}

func top[T any](name string, p func(*domain.Intake) *T) Lens[T] {
	return Lens[T]{
		name: name,
		get:  func(in *domain.Intake) T { return *p(in) },
		set:  func(in *domain.Intake, v T) { *p(in) = v },
	}
}

func field[S, T any](sec section[S], name string, p func(*S) *T) Lens[T] {
	return Lens[T]{
		name: sec.name + "." + name,
		get: func(in *domain.Intake) T {
			s := sec.get(in)
			if s == nil {
				var zero T
				return zero
			}
			return *p(s)
		},
		set: func(in *domain.Intake, v T) { *p(sec.ensure(in)) = v },
	}
}

func list[T any](name string, p func(*domain.Intake) *[]T) Lens[[]T] {
	return Lens[[]T]{
		name: name,
		get:  func(in *domain.Intake) []T { return slices.Clone(*p(in)) },
		set:  func(in *domain.Intake, v []T) { *p(in) = slices.Clone(v) },
	}
}

// withEffect 字段写入后执行联动清理（如 probation=false 时重置 jurisdiction）
func withEffect[T any](l Lens[T], effect func(*domain.Intake, T)) Lens[T] {
	set := l.set
	l.set = func(in *domain.Intake, v T) {
		set(in, v)
		effect(in, v)
	}
	return l
}

var (
	healthSection = section[domain.HealthStatus]{
		name: "healthStatus",
		get:  func(in *domain.Intake) *domain.HealthStatus { return in.HealthStatus },
		ensure: func(in *domain.Intake) *domain.HealthStatus {
			if in.HealthStatus == nil {
				in.HealthStatus = &domain.HealthStatus{Others: []string{}}
			}
			return in.HealthStatus
		},
	}
	vehicleSection = section[domain.VehicleInformation]{
		name: "vehicle",
		get:  func(in *domain.Intake) *domain.VehicleInformation { return in.Vehicle },
		ensure: func(in *domain.Intake) *domain.VehicleInformation {
			if in.Vehicle == nil {
				in.Vehicle = &domain.VehicleInformation{}
			}
			return in.Vehicle
		},
	}
	emergencySection = section[domain.EmergencyContact]{
		name: "emergencyContact",
		get:  func(in *domain.Intake) *domain.EmergencyContact { return in.EmergencyContact },
		ensure: func(in *domain.Intake) *domain.EmergencyContact {
			if in.EmergencyContact == nil {
				in.EmergencyContact = &domain.EmergencyContact{}
			}
			return in.EmergencyContact
		},
	}
	medicalSection = section[domain.MedicalInformation]{
		name: "medicalInformation",
		get:  func(in *domain.Intake) *domain.MedicalInformation { return in.MedicalInformation },
		ensure: func(in *domain.Intake) *domain.MedicalInformation {
			if in.MedicalInformation == nil {
				in.MedicalInformation = &domain.MedicalInformation{}
			}
			return in.MedicalInformation
		},
	}
	legalSection = section[domain.LegalStatus]{
		name: "legalStatus",
		get:  func(in *domain.Intake) *domain.LegalStatus { return in.LegalStatus },
		ensure: func(in *domain.Intake) *domain.LegalStatus {
			if in.LegalStatus == nil {
				in.LegalStatus = &domain.LegalStatus{Jurisdiction: domain.JurisdictionNone}
			}
			return in.LegalStatus
		},
	}
)

// 个人信息
var (
	FirstName            = top("firstName", func(in *domain.Intake) *string { return &in.FirstName })
	LastName             = top("lastName", func(in *domain.Intake) *string { return &in.LastName })
	IntakeDate           = top("intakeDate", func(in *domain.Intake) *string { return &in.IntakeDate })
	HousingLocation      = top("housingLocation", func(in *domain.Intake) *string { return &in.HousingLocation })
	DateOfBirth          = top("dateOfBirth", func(in *domain.Intake) *string { return &in.DateOfBirth })
	SocialSecurityNumber = top("socialSecurityNumber", func(in *domain.Intake) *string { return &in.SocialSecurityNumber })
	Sex                  = top("sex", func(in *domain.Intake) *string { return &in.Sex })
	Email                = top("email", func(in *domain.Intake) *string { return &in.Email })
	DriversLicenseNumber = top("driversLicenseNumber", func(in *domain.Intake) *string { return &in.DriversLicenseNumber })
	PhoneNumber          = top("phoneNumber", func(in *domain.Intake) *string { return &in.PhoneNumber })
)

// 车辆/保险
var (
	// Vehicle 整体替换；nil 表示没有车辆
	Vehicle = Lens[*domain.VehicleInformation]{
		name: "vehicle",
		get: func(in *domain.Intake) *domain.VehicleInformation {
			if in.Vehicle == nil {
				return nil
			}
			v := *in.Vehicle
			return &v
		},
		set: func(in *domain.Intake, v *domain.VehicleInformation) {
			if v == nil {
				in.Vehicle = nil
				return
			}
			c := *v
			in.Vehicle = &c
		},
	}
	VehicleMake      = field(vehicleSection, "make", func(v *domain.VehicleInformation) *string { return &v.Make })
	VehicleModel     = field(vehicleSection, "model", func(v *domain.VehicleInformation) *string { return &v.Model })
	VehicleTagNumber = field(vehicleSection, "tagNumber", func(v *domain.VehicleInformation) *string { return &v.TagNumber })
	VehicleInsured   = withEffect(
		field(vehicleSection, "insured", func(v *domain.VehicleInformation) *bool { return &v.Insured }),
		func(in *domain.Intake, insured bool) {
			if !insured {
				in.Vehicle.InsuranceType = ""
				in.Vehicle.PolicyNumber = ""
			}
		},
	)
	VehicleInsuranceType = withEffect(
		field(vehicleSection, "insuranceType", func(v *domain.VehicleInformation) *string { return &v.InsuranceType }),
		func(in *domain.Intake, t string) {
			if t == domain.InsuranceUninsured {
				in.Vehicle.PolicyNumber = ""
			}
		},
	)
	VehiclePolicyNumber = field(vehicleSection, "policyNumber", func(v *domain.VehicleInformation) *string { return &v.PolicyNumber })
)

// 紧急联系人
var (
	EmergencyFirstName    = field(emergencySection, "firstName", func(c *domain.EmergencyContact) *string { return &c.FirstName })
	EmergencyLastName     = field(emergencySection, "lastName", func(c *domain.EmergencyContact) *string { return &c.LastName })
	EmergencyPhone        = field(emergencySection, "phone", func(c *domain.EmergencyContact) *string { return &c.Phone })
	EmergencyRelationship = withEffect(
		field(emergencySection, "relationship", func(c *domain.EmergencyContact) *string { return &c.Relationship }),
		func(in *domain.Intake, rel string) {
			if rel != domain.RelationshipOther {
				in.EmergencyContact.OtherRelationship = ""
			}
		},
	)
	EmergencyOtherRelationship = field(emergencySection, "otherRelationship", func(c *domain.EmergencyContact) *string { return &c.OtherRelationship })
)

// 医疗信息
var (
	DualDiagnosis = field(medicalSection, "dualDiagnosis", func(m *domain.MedicalInformation) *bool { return &m.DualDiagnosis })
	MAT           = withEffect(
		field(medicalSection, "mat", func(m *domain.MedicalInformation) *bool { return &m.MAT }),
		func(in *domain.Intake, mat bool) {
			if !mat {
				in.MedicalInformation.MATMedication = ""
				in.MedicalInformation.MATMedicationOther = ""
			}
		},
	)
	MATMedication       = field(medicalSection, "matMedication", func(m *domain.MedicalInformation) *string { return &m.MATMedication })
	MATMedicationOther  = field(medicalSection, "matMedicationOther", func(m *domain.MedicalInformation) *string { return &m.MATMedicationOther })
	NeedPsychMedication = field(medicalSection, "needPsychMedication", func(m *domain.MedicalInformation) *bool { return &m.NeedPsychMedication })
	Medications         = list("medications", func(in *domain.Intake) *[]string { return &in.Medications })
)

// 健康状态
var (
	HealthPregnant                = field(healthSection, "pregnant", func(h *domain.HealthStatus) *domain.Flag { return &h.Pregnant })
	HealthDevelopmentallyDisabled = field(healthSection, "developmentallyDisabled", func(h *domain.HealthStatus) *domain.Flag { return &h.DevelopmentallyDisabled })
	HealthCoOccurringDisorder     = field(healthSection, "coOccurringDisorder", func(h *domain.HealthStatus) *domain.Flag { return &h.CoOccurringDisorder })
	HealthDocSupervision          = field(healthSection, "docSupervision", func(h *domain.HealthStatus) *domain.Flag { return &h.DocSupervision })
	HealthFelon                   = field(healthSection, "felon", func(h *domain.HealthStatus) *domain.Flag { return &h.Felon })
	HealthPhysicallyHandicapped   = field(healthSection, "physicallyHandicapped", func(h *domain.HealthStatus) *domain.Flag { return &h.PhysicallyHandicapped })
	HealthPostPartum              = field(healthSection, "postPartum", func(h *domain.HealthStatus) *domain.Flag { return &h.PostPartum })
	HealthPrimaryFemaleCaregiver  = field(healthSection, "primaryFemaleCaregiver", func(h *domain.HealthStatus) *domain.Flag { return &h.PrimaryFemaleCaregiver })
	HealthRecentlyIncarcerated    = field(healthSection, "recentlyIncarcerated", func(h *domain.HealthStatus) *domain.Flag { return &h.RecentlyIncarcerated })
	HealthSexOffender             = field(healthSection, "sexOffender", func(h *domain.HealthStatus) *domain.Flag { return &h.SexOffender })
	HealthLGBTQ                   = field(healthSection, "lgbtq", func(h *domain.HealthStatus) *domain.Flag { return &h.LGBTQ })
	HealthVeteran                 = field(healthSection, "veteran", func(h *domain.HealthStatus) *domain.Flag { return &h.Veteran })
	HealthInsulinDependent        = field(healthSection, "insulinDependent", func(h *domain.HealthStatus) *domain.Flag { return &h.InsulinDependent })
	HealthHistoryOfSeizures       = field(healthSection, "historyOfSeizures", func(h *domain.HealthStatus) *domain.Flag { return &h.HistoryOfSeizures })
	HealthOthers                  = Lens[[]string]{
		name: "healthStatus.others",
		get: func(in *domain.Intake) []string {
			if in.HealthStatus == nil {
				return nil
			}
			return slices.Clone(in.HealthStatus.Others)
		},
		set: func(in *domain.Intake, v []string) {
			hs := healthSection.ensure(in)
			hs.Others = slices.Clone(v)
		},
	}
	HealthRace             = field(healthSection, "race", func(h *domain.HealthStatus) *string { return &h.Race })
	HealthEthnicity        = field(healthSection, "ethnicity", func(h *domain.HealthStatus) *string { return &h.Ethnicity })
	HealthHouseholdIncome  = field(healthSection, "householdIncome", func(h *domain.HealthStatus) *string { return &h.HouseholdIncome })
	HealthEmploymentStatus = field(healthSection, "employmentStatus", func(h *domain.HealthStatus) *string { return &h.EmploymentStatus })
)

// 法律状态
var (
	HasProbationPretrial = withEffect(
		field(legalSection, "hasProbationPretrial", func(l *domain.LegalStatus) *bool { return &l.HasProbationPretrial }),
		func(in *domain.Intake, on bool) {
			if !on {
				in.LegalStatus.Jurisdiction = domain.JurisdictionNone
				in.LegalStatus.OtherJurisdiction = ""
				return
			}
			if in.LegalStatus.Jurisdiction == domain.JurisdictionNone {
				in.LegalStatus.Jurisdiction = ""
			}
		},
	)
	Jurisdiction = withEffect(
		field(legalSection, "jurisdiction", func(l *domain.LegalStatus) *string { return &l.Jurisdiction }),
		func(in *domain.Intake, j string) {
			if j != domain.JurisdictionOther {
				in.LegalStatus.OtherJurisdiction = ""
			}
		},
	)
	OtherJurisdiction = field(legalSection, "otherJurisdiction", func(l *domain.LegalStatus) *string { return &l.OtherJurisdiction })
	HasPendingCharges = withEffect(
		field(legalSection, "hasPendingCharges", func(l *domain.LegalStatus) *bool { return &l.HasPendingCharges }),
		func(in *domain.Intake, on bool) {
			if !on {
				in.PendingCharges = nil
			}
		},
	)
	HasConvictions = withEffect(
		field(legalSection, "hasConvictions", func(l *domain.LegalStatus) *bool { return &l.HasConvictions }),
		func(in *domain.Intake, on bool) {
			if !on {
				in.Convictions = nil
			}
		},
	)
	IsWanted = field(legalSection, "isWanted", func(l *domain.LegalStatus) *bool { return &l.IsWanted })
	IsOnBond = withEffect(
		field(legalSection, "isOnBond", func(l *domain.LegalStatus) *bool { return &l.IsOnBond }),
		func(in *domain.Intake, on bool) {
			if !on {
				in.LegalStatus.BondsmanName = ""
			}
		},
	)
	BondsmanName   = field(legalSection, "bondsmanName", func(l *domain.LegalStatus) *string { return &l.BondsmanName })
	IsSexOffender  = field(legalSection, "isSexOffender", func(l *domain.LegalStatus) *bool { return &l.IsSexOffender })
	PendingCharges = list("pendingCharges", func(in *domain.Intake) *[]domain.PendingCharge { return &in.PendingCharges })
	Convictions    = list("convictions", func(in *domain.Intake) *[]domain.Conviction { return &in.Convictions })
)

// AuthorizedPeople 授权探视人列表整体替换
var AuthorizedPeople = list("authorizedPeople", func(in *domain.Intake) *[]domain.AuthorizedPerson { return &in.AuthorizedPeople })

var registry = buildRegistry(
	FirstName, LastName, IntakeDate, HousingLocation, DateOfBirth, SocialSecurityNumber,
	Sex, Email, DriversLicenseNumber, PhoneNumber,
	Vehicle, VehicleMake, VehicleModel, VehicleTagNumber, VehicleInsured, VehicleInsuranceType, VehiclePolicyNumber,
	EmergencyFirstName, EmergencyLastName, EmergencyPhone, EmergencyRelationship, EmergencyOtherRelationship,
	DualDiagnosis, MAT, MATMedication, MATMedicationOther, NeedPsychMedication, Medications,
	HealthPregnant, HealthDevelopmentallyDisabled, HealthCoOccurringDisorder, HealthDocSupervision,
	HealthFelon, HealthPhysicallyHandicapped, HealthPostPartum, HealthPrimaryFemaleCaregiver,
	HealthRecentlyIncarcerated, HealthSexOffender, HealthLGBTQ, HealthVeteran, HealthInsulinDependent,
	HealthHistoryOfSeizures, HealthOthers, HealthRace, HealthEthnicity, HealthHouseholdIncome, HealthEmploymentStatus,
	HasProbationPretrial, Jurisdiction, OtherJurisdiction, HasPendingCharges, HasConvictions,
	IsWanted, IsOnBond, BondsmanName, IsSexOffender, PendingCharges, Convictions,
	AuthorizedPeople,
)

func buildRegistry(fields ...Field) map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		if _, dup := m[f.Name()]; dup {
			panic("wizard: duplicate field " + f.Name())
		}
		m[f.Name()] = f
	}
	return m
}

// Lookup 按稳定名称查找字段
func Lookup(name string) (Field, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// FieldNames 全部可编辑字段名（排序）
func FieldNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
