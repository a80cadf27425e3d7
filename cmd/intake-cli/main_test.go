package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/domain"
)

func writeIntakeFile(t *testing.T, mutate func(*domain.Intake)) string {
	t.Helper()
	in := domain.Intake{
		FirstName:            "Jane",
		LastName:             "Doe",
		IntakeDate:           "2024-03-01",
		HousingLocation:      "hawthorne",
		DateOfBirth:          "1990-01-02",
		SocialSecurityNumber: "123-45-6789",
		Sex:                  "female",
		Email:                "jane@example.com",
		DriversLicenseNumber: "D1234567",
		HealthStatus: &domain.HealthStatus{
			Race: "white", Ethnicity: "non-hispanic", HouseholdIncome: "0-10000", EmploymentStatus: "unemployed",
		},
		EmergencyContact: &domain.EmergencyContact{
			FirstName: "John", LastName: "Doe", Phone: "555-0100", Relationship: "sibling",
		},
		MedicalInformation: &domain.MedicalInformation{},
		LegalStatus:        &domain.LegalStatus{Jurisdiction: domain.JurisdictionNone},
		Signatures: []domain.Signature{{
			SignatureType:      domain.SignatureEmergency,
			Signature:          "Jane Doe",
			SignatureTimestamp: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC),
			SignatureID:        "sig-1",
		}},
	}
	if mutate != nil {
		mutate(&in)
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "validate", writeIntakeFile(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = run(t, "validate", writeIntakeFile(t, func(in *domain.Intake) { in.Email = "bad" }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_email")
}

func TestSubmitCmd(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/submit", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Participant data saved successfully","data":{"name":"Jane Doe","intake_date":"2024-03-01","participant_id":7}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--server", srv.URL, "submit", writeIntakeFile(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "participant_id=7")

	_, err = run(t, "--server", srv.URL, "submit", writeIntakeFile(t, func(in *domain.Intake) { in.LastName = "" }))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPDFCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.pdf")
	out, err := run(t, "--server", srv.URL, "pdf", writeIntakeFile(t, nil), "-o", dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote "))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestExportCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/v1/applications/export", r.URL.Path)
		assert.Equal(t, "hawthorne", r.URL.Query().Get("housing_location"))
		_, _ = w.Write([]byte("xlsx-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "apps.xlsx")
	_, err := run(t, "--server", srv.URL, "export", "--housing", "hawthorne", "-o", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))
}
