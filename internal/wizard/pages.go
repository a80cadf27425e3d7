package wizard

import "github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"

// Page 一个向导步骤：编辑哪些字段、收集哪些签名
type Page struct {
	Number     int                    `json:"number"`
	Key        string                 `json:"key"`
	Title      string                 `json:"title"`
	Fields     []string               `json:"fields,omitempty"`
	Signatures []domain.SignatureType `json:"signatures,omitempty"`
}

func names(fields ...Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name()
	}
	return out
}

var pages = []Page{
	{Key: "personal", Title: "Personal Information", Fields: names(
		FirstName, LastName, IntakeDate, HousingLocation, DateOfBirth,
		SocialSecurityNumber, Sex, Email, DriversLicenseNumber, PhoneNumber,
	)},
	{Key: "health_status", Title: "Health Status", Fields: names(
		HealthPregnant, HealthDevelopmentallyDisabled, HealthCoOccurringDisorder, HealthDocSupervision,
		HealthFelon, HealthPhysicallyHandicapped, HealthPostPartum, HealthPrimaryFemaleCaregiver,
		HealthRecentlyIncarcerated, HealthSexOffender, HealthLGBTQ, HealthVeteran,
		HealthInsulinDependent, HealthHistoryOfSeizures, HealthOthers,
		HealthRace, HealthEthnicity, HealthHouseholdIncome, HealthEmploymentStatus,
	)},
	{Key: "vehicle", Title: "Vehicle Information", Fields: names(
		Vehicle, VehicleMake, VehicleModel, VehicleTagNumber,
		VehicleInsured, VehicleInsuranceType, VehiclePolicyNumber,
	)},
	{Key: "emergency_contact", Title: "Emergency Contact", Fields: names(
		EmergencyFirstName, EmergencyLastName, EmergencyPhone,
		EmergencyRelationship, EmergencyOtherRelationship,
	)},
	{Key: "emergency_consent", Title: "Emergency Contact Consent", Signatures: []domain.SignatureType{domain.SignatureEmergency}},
	{Key: "medical", Title: "Medical Information", Fields: names(
		DualDiagnosis, MAT, MATMedication, MATMedicationOther, NeedPsychMedication, Medications,
	), Signatures: []domain.SignatureType{domain.SignatureMedication}},
	{Key: "disclosure", Title: "Disclosure", Signatures: []domain.SignatureType{domain.SignatureDisclosure}},
	{Key: "treatment", Title: "Treatment Consent", Signatures: []domain.SignatureType{domain.SignatureTreatment}},
	{Key: "price_consent", Title: "Price Consent", Signatures: []domain.SignatureType{domain.SignaturePriceConsent}},
	{Key: "legal_status", Title: "Legal Status", Fields: names(
		HasProbationPretrial, Jurisdiction, OtherJurisdiction, HasPendingCharges, PendingCharges,
		HasConvictions, Convictions, IsWanted, IsOnBond, BondsmanName, IsSexOffender,
	)},
	{Key: "criminal_history", Title: "Criminal History", Signatures: []domain.SignatureType{domain.SignatureCriminalHistory}},
	{Key: "ethics", Title: "Ethics", Signatures: []domain.SignatureType{domain.SignatureEthics}},
	{Key: "residency_terms", Title: "Tenant Rights & Contract Terms", Signatures: []domain.SignatureType{
		domain.SignatureTenantRights, domain.SignatureContractTerms,
	}},
	{Key: "house_rules", Title: "House Rules", Fields: names(AuthorizedPeople), Signatures: []domain.SignatureType{
		domain.SignatureCriticalRules, domain.SignatureHouseRules,
	}},
	{Key: "review", Title: "Review & Submit"},
}

func init() {
	for i := range pages {
		pages[i].Number = i + 1
	}
}

// Pages 全部页面定义（副本）
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// PageCount 向导总页数
func PageCount() int { return len(pages) }

// PageAt 按 1 起页码取页面
func PageAt(n int) (Page, bool) {
	if n < 1 || n > len(pages) {
		return Page{}, false
	}
	return pages[n-1], true
}
