package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/service"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func startSession(t *testing.T, env *testEnv) sessionView {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/intake/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view sessionView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &view))
	require.NotEmpty(t, view.ID)
	return view
}

func setField(t *testing.T, env *testEnv, id, field string, value any) {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	rec := env.do(t, http.MethodPatch, "/api/intake/sessions/"+id+"/fields",
		map[string]any{"field": field, "value": json.RawMessage(raw)})
	require.Equal(t, http.StatusOK, rec.Code, "%s: %s", field, rec.Body.String())
}

func TestIntakeSession_StartAndGet(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)
	assert.Equal(t, 1, view.Progress.Current)
	assert.NotEmpty(t, view.Intake.IntakeDate)

	setField(t, env, view.ID, "firstName", "Jane")

	rec := env.do(t, http.MethodGet, "/api/intake/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got sessionView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, "Jane", got.Intake.FirstName)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/intake/sessions/nope", nil).Code)
}

func TestIntakeSession_UnknownField(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)

	rec := env.do(t, http.MethodPatch, "/api/intake/sessions/"+view.ID+"/fields",
		map[string]any{"field": "favoriteColor", "value": "blue"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_field", decodeEnvelope(t, rec).Error)

	rec = env.do(t, http.MethodPatch, "/api/intake/sessions/"+view.ID+"/fields",
		map[string]any{"field": "firstName", "value": 42})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_value", decodeEnvelope(t, rec).Error)
}

func TestIntakeSession_Navigation(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)
	path := "/api/intake/sessions/" + view.ID

	type navData struct {
		Moved    bool `json:"moved"`
		Progress struct {
			Current int `json:"current"`
		} `json:"progress"`
	}
	var nav navData

	rec := env.do(t, http.MethodPost, path+"/back", nil)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &nav))
	assert.False(t, nav.Moved)
	assert.Equal(t, 1, nav.Progress.Current)

	rec = env.do(t, http.MethodPost, path+"/next", nil)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &nav))
	assert.True(t, nav.Moved)
	assert.Equal(t, 2, nav.Progress.Current)

	rec = env.do(t, http.MethodPost, path+"/goto", map[string]int{"page": 999})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, path+"/goto", map[string]int{"page": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &nav))
	assert.Equal(t, 3, nav.Progress.Current)
}

func TestIntakeSession_Signatures(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)
	path := "/api/intake/sessions/" + view.ID + "/signatures/"

	rec := env.do(t, http.MethodPut, path+"emergency", map[string]string{"witnessSignature": "Staff"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, path+"emergency", map[string]string{"signature": "Jane Doe", "witnessSignature": "Staff"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sig struct {
		SignatureID        string `json:"signatureId"`
		WitnessSignatureID string `json:"witnessSignatureId"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sig))
	assert.NotEmpty(t, sig.SignatureID)
	assert.NotEmpty(t, sig.WitnessSignatureID)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, path+"bogus", map[string]string{"signature": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, path+"emergency", map[string]string{}).Code)
}

func TestIntakeSession_SubmitFlow(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)
	id := view.ID

	// 未填完整时提交失败，会话保留
	rec := env.do(t, http.MethodPost, "/api/intake/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.RuleMissingName, decodeEnvelope(t, rec).Error)
	assert.Equal(t, 1, env.sessions.Len())

	for field, value := range map[string]any{
		"firstName":                        "Jane",
		"lastName":                         "Doe",
		"email":                            "jane@example.com",
		"housingLocation":                  "hawthorne",
		"dateOfBirth":                      "1990-01-02",
		"socialSecurityNumber":             "123-45-6789",
		"sex":                              "female",
		"driversLicenseNumber":             "D1234567",
		"healthStatus.race":                "white",
		"healthStatus.ethnicity":           "non-hispanic",
		"healthStatus.householdIncome":     "0-10000",
		"healthStatus.employmentStatus":    "unemployed",
		"emergencyContact.firstName":       "John",
		"emergencyContact.lastName":        "Doe",
		"emergencyContact.phone":           "555-0100",
		"emergencyContact.relationship":    "sibling",
		"medicalInformation.mat":           false,
		"legalStatus.hasProbationPretrial": false,
	} {
		setField(t, env, id, field, value)
	}
	rec = env.do(t, http.MethodPut, "/api/intake/sessions/"+id+"/signatures/emergency", map[string]string{"signature": "Jane Doe"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/intake/sessions/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeEnvelope(t, rec)
	assert.True(t, res.Success)
	var data service.SubmitResponseData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "Jane Doe", data.Name)
	assert.Positive(t, data.ParticipantID)

	assert.Zero(t, env.sessions.Len())
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/intake/sessions/"+id, nil).Code)
}

func TestIntakeSession_Delete(t *testing.T) {
	env := setupTestEnv(t, nil)
	view := startSession(t, env)

	rec := env.do(t, http.MethodDelete, "/api/intake/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.sessions.Len())
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(t, http.MethodGet, "/api/intake/sessions", nil).Code)
}

func TestIntakePages(t *testing.T) {
	env := setupTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/intake/pages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pages []map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &pages))
	assert.NotEmpty(t, pages)
}
