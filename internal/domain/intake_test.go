package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`"yes"`, true},
		{`"Y"`, true},
		{`"no"`, false},
		{`""`, false},
		{`1`, true},
		{`0`, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, bool(f))
		})
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`{}`), &f))
}

func TestIntake_CloneIsIndependent(t *testing.T) {
	agreed := true
	in := Intake{
		FirstName:        "Jane",
		HealthStatus:     &HealthStatus{Others: []string{"asthma"}},
		EmergencyContact: &EmergencyContact{Phone: "1"},
		Medications:      []string{"a"},
		Signatures:       []Signature{{SignatureType: SignatureEthics, Agreed: &agreed}},
	}
	out := in.Clone()
	out.HealthStatus.Others[0] = "changed"
	out.EmergencyContact.Phone = "2"
	out.Medications[0] = "b"
	*out.Signatures[0].Agreed = false

	assert.Equal(t, "asthma", in.HealthStatus.Others[0])
	assert.Equal(t, "1", in.EmergencyContact.Phone)
	assert.Equal(t, "a", in.Medications[0])
	assert.True(t, *in.Signatures[0].Agreed)

	assert.Nil(t, Intake{}.Clone().Signatures)
}

func TestAuthorizedPerson(t *testing.T) {
	assert.True(t, AuthorizedPerson{FirstName: " "}.IsBlank())
	assert.False(t, AuthorizedPerson{FirstName: "A"}.IsBlank())
	assert.False(t, AuthorizedPerson{FirstName: "A"}.IsComplete())
	assert.True(t, AuthorizedPerson{FirstName: "A", LastName: "B", Relationship: "friend", Phone: "1"}.IsComplete())
}

func TestParseSignatureType(t *testing.T) {
	st, ok := ParseSignatureType(" Price_Consent ")
	assert.True(t, ok)
	assert.Equal(t, SignaturePriceConsent, st)

	_, ok = ParseSignatureType("witness")
	assert.False(t, ok)
}
