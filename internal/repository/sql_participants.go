package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

// SQLParticipantsRepository ParticipantsRepository 的 database/sql 实现
// postgres (lib/pq / pgx) 与 sqlite (modernc) 共用，占位符由 Dialect 改写
type SQLParticipantsRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLParticipantsRepository 创建参与者 Repository
func NewSQLParticipantsRepository(db *sql.DB, dialect Dialect) *SQLParticipantsRepository {
	return &SQLParticipantsRepository{db: db, dialect: dialect}
}

// 确保实现了接口
var _ ParticipantsRepository = (*SQLParticipantsRepository)(nil)

// CreateParticipant 事务写入参与者全部记录，返回 resident id
// 顺序: residents → health_status → vehicles → emergency_contacts → medical_information →
// medications → authorized_people → legal_status → pending_charges → convictions → signatures
func (r *SQLParticipantsRepository) CreateParticipant(ctx context.Context, in domain.Intake) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	id, err := r.insertParticipant(ctx, tx, in)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return 0, fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *SQLParticipantsRepository) exec(ctx context.Context, tx *sql.Tx, what, query string, args ...any) error {
	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to insert %s: %w", what, err)
	}
	return nil
}

func (r *SQLParticipantsRepository) insertParticipant(ctx context.Context, tx *sql.Tx, in domain.Intake) (int64, error) {
	var phoneArg any = nil
	if in.PhoneNumber != "" {
		phoneArg = in.PhoneNumber
	}

	var residentID int64
	err := tx.QueryRowContext(ctx, r.dialect.Rebind(
		`INSERT INTO residents (
			first_name, last_name, intake_date, housing_location, date_of_birth,
			social_security_number, sex, email, drivers_license_number, phone_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		in.FirstName, in.LastName, in.IntakeDate, in.HousingLocation, in.DateOfBirth,
		in.SocialSecurityNumber, in.Sex, in.Email, in.DriversLicenseNumber, phoneArg,
	).Scan(&residentID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert resident: %w", err)
	}

	if hs := in.HealthStatus; hs != nil {
		others := hs.Others
		if others == nil {
			others = []string{}
		}
		othersJSON, err := json.Marshal(others)
		if err != nil {
			return 0, fmt.Errorf("failed to encode health status others: %w", err)
		}
		err = r.exec(ctx, tx, "health status",
			`INSERT INTO health_status (
				resident_id, pregnant, developmentally_disabled, co_occurring_disorder, doc_supervision,
				felon, physically_handicapped, post_partum, primary_female_caregiver, recently_incarcerated,
				sex_offender, lgbtq, veteran, insulin_dependent, history_of_seizures,
				others, race, ethnicity, household_income, employment_status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			residentID, bool(hs.Pregnant), bool(hs.DevelopmentallyDisabled), bool(hs.CoOccurringDisorder), bool(hs.DocSupervision),
			bool(hs.Felon), bool(hs.PhysicallyHandicapped), bool(hs.PostPartum), bool(hs.PrimaryFemaleCaregiver), bool(hs.RecentlyIncarcerated),
			bool(hs.SexOffender), bool(hs.LGBTQ), bool(hs.Veteran), bool(hs.InsulinDependent), bool(hs.HistoryOfSeizures),
			string(othersJSON), hs.Race, hs.Ethnicity, hs.HouseholdIncome, hs.EmploymentStatus,
		)
		if err != nil {
			return 0, err
		}
	}

	if v := in.Vehicle; v != nil {
		err = r.exec(ctx, tx, "vehicle",
			`INSERT INTO vehicles (resident_id, make, model, tag_number, insured, insurance_type, policy_number)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			residentID, nullString(v.Make), nullString(v.Model), nullString(v.TagNumber),
			v.Insured, nullString(v.InsuranceType), nullString(v.PolicyNumber),
		)
		if err != nil {
			return 0, err
		}
	}

	if ec := in.EmergencyContact; ec != nil {
		err = r.exec(ctx, tx, "emergency contact",
			`INSERT INTO emergency_contacts (resident_id, first_name, last_name, phone, relationship, other_relationship)
			VALUES (?, ?, ?, ?, ?, ?)`,
			residentID, ec.FirstName, ec.LastName, ec.Phone, ec.Relationship, nullString(ec.OtherRelationship),
		)
		if err != nil {
			return 0, err
		}
	}

	if mi := in.MedicalInformation; mi != nil {
		err = r.exec(ctx, tx, "medical information",
			`INSERT INTO medical_information (resident_id, dual_diagnosis, mat, mat_medication, mat_medication_other, need_psych_medication)
			VALUES (?, ?, ?, ?, ?, ?)`,
			residentID, mi.DualDiagnosis, mi.MAT, nullString(mi.MATMedication), nullString(mi.MATMedicationOther), mi.NeedPsychMedication,
		)
		if err != nil {
			return 0, err
		}
	}

	for _, med := range in.Medications {
		if err := r.exec(ctx, tx, "medication",
			`INSERT INTO medications (resident_id, medication_name) VALUES (?, ?)`,
			residentID, med,
		); err != nil {
			return 0, err
		}
	}

	for _, p := range in.AuthorizedPeople {
		if err := r.exec(ctx, tx, "authorized person",
			`INSERT INTO authorized_people (resident_id, first_name, last_name, relationship, phone)
			VALUES (?, ?, ?, ?, ?)`,
			residentID, p.FirstName, p.LastName, p.Relationship, p.Phone,
		); err != nil {
			return 0, err
		}
	}

	if ls := in.LegalStatus; ls != nil {
		err = r.exec(ctx, tx, "legal status",
			`INSERT INTO legal_status (
				resident_id, has_probation_pretrial, jurisdiction, other_jurisdiction, has_pending_charges,
				has_convictions, is_wanted, is_on_bond, bondsman_name, is_sex_offender
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			residentID, ls.HasProbationPretrial, nullString(ls.Jurisdiction), nullString(ls.OtherJurisdiction), ls.HasPendingCharges,
			ls.HasConvictions, ls.IsWanted, ls.IsOnBond, nullString(ls.BondsmanName), ls.IsSexOffender,
		)
		if err != nil {
			return 0, err
		}
	}

	for _, c := range in.PendingCharges {
		if err := r.exec(ctx, tx, "pending charge",
			`INSERT INTO pending_charges (resident_id, charge_description, location) VALUES (?, ?, ?)`,
			residentID, c.ChargeDescription, nullString(c.Location),
		); err != nil {
			return 0, err
		}
	}

	for _, c := range in.Convictions {
		if err := r.exec(ctx, tx, "conviction",
			`INSERT INTO convictions (resident_id, offense) VALUES (?, ?)`,
			residentID, c.Offense,
		); err != nil {
			return 0, err
		}
	}

	for _, s := range in.Signatures {
		var witnessTSArg any = nil
		if s.WitnessTimestamp != nil {
			witnessTSArg = s.WitnessTimestamp.UTC()
		}
		var agreedArg any = nil
		if s.Agreed != nil {
			agreedArg = *s.Agreed
		}
		if err := r.exec(ctx, tx, "signature "+string(s.SignatureType),
			`INSERT INTO signatures (
				resident_id, signature_type, signature, signature_timestamp, signature_id,
				witness_signature, witness_timestamp, witness_signature_id, agreed
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			residentID, string(s.SignatureType), s.Signature, s.SignatureTimestamp.UTC(), s.SignatureID,
			nullString(s.WitnessSignature), witnessTSArg, nullString(s.WitnessSignatureID), agreedArg,
		); err != nil {
			return 0, err
		}
	}

	return residentID, nil
}

// ListParticipants 分页列出参与者（按 id 倒序）
func (r *SQLParticipantsRepository) ListParticipants(ctx context.Context, filters ParticipantFilters, limit, offset int) ([]ParticipantSummary, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{"1=1"}
	args := []any{}
	if filters.HousingLocation != "" {
		where = append(where, "housing_location = ?")
		args = append(args, strings.ToLower(filters.HousingLocation))
	}
	if filters.Search != "" {
		where = append(where, "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)")
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		args = append(args, pattern, pattern)
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		r.dialect.Rebind(`SELECT COUNT(*) FROM residents WHERE `+whereSQL), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count participants: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT id, first_name, last_name, intake_date, housing_location, email, created_at
		FROM residents
		WHERE `+whereSQL+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`),
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	out := []ParticipantSummary{}
	for rows.Next() {
		var p ParticipantSummary
		var intakeDate, createdAt any
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &intakeDate, &p.HousingLocation, &p.Email, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.IntakeDate = dateString(intakeDate)
		p.CreatedAt = timeValue(createdAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return out, total, nil
}

// GetParticipant 参与者详情
func (r *SQLParticipantsRepository) GetParticipant(ctx context.Context, id int64) (*ParticipantDetail, error) {
	var d ParticipantDetail
	var intakeDate, dob, createdAt any
	var phone sql.NullString
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, first_name, last_name, intake_date, housing_location, email, created_at,
			date_of_birth, sex, phone_number
		FROM residents WHERE id = ?`), id,
	).Scan(&d.ID, &d.FirstName, &d.LastName, &intakeDate, &d.HousingLocation, &d.Email, &createdAt,
		&dob, &d.Sex, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	d.IntakeDate = dateString(intakeDate)
	d.DateOfBirth = dateString(dob)
	d.CreatedAt = timeValue(createdAt)
	d.PhoneNumber = phone.String

	var ec domain.EmergencyContact
	var otherRel sql.NullString
	err = r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT first_name, last_name, phone, relationship, other_relationship
		FROM emergency_contacts WHERE resident_id = ? ORDER BY id LIMIT 1`), id,
	).Scan(&ec.FirstName, &ec.LastName, &ec.Phone, &ec.Relationship, &otherRel)
	switch {
	case err == nil:
		ec.OtherRelationship = otherRel.String
		d.EmergencyContact = &ec
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to get emergency contact: %w", err)
	}

	counts := []struct {
		table string
		dst   *int
	}{
		{"medications", &d.MedicationCount},
		{"authorized_people", &d.AuthorizedPeopleCnt},
		{"pending_charges", &d.PendingChargeCount},
		{"convictions", &d.ConvictionCount},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
			`SELECT COUNT(*) FROM `+c.table+` WHERE resident_id = ?`), id,
		).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	var vehicles int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT COUNT(*) FROM vehicles WHERE resident_id = ?`), id,
	).Scan(&vehicles); err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	d.HasVehicle = vehicles > 0

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT signature_type FROM signatures WHERE resident_id = ? ORDER BY id`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures: %w", err)
	}
	defer rows.Close()
	d.SignatureTypes = []domain.SignatureType{}
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("failed to scan signature: %w", err)
		}
		d.SignatureTypes = append(d.SignatureTypes, domain.SignatureType(st))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signatures: %w", err)
	}
	return &d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dateString DATE 列在 postgres 驱动下是 time.Time，sqlite 下是字符串
func dateString(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case []byte:
		return firstN(string(t), 10)
	case string:
		return firstN(t, 10)
	default:
		return ""
	}
}

func timeValue(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseTime(string(t))
	case string:
		return parseTime(t)
	default:
		return time.Time{}
	}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
