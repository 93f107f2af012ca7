package account

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     registerRequest
		missing []string
	}{
		{name: "complete", req: registerRequest{FullName: strPtr("Ann"), Email: strPtr("a@x.com"), Password: strPtr("p1")}},
		{name: "empty values are present", req: registerRequest{FullName: strPtr(""), Email: strPtr(""), Password: strPtr("")}},
		{name: "nothing", req: registerRequest{}, missing: []string{"full_name", "email", "password"}},
		{name: "only email", req: registerRequest{Email: strPtr("a@x.com")}, missing: []string{"full_name", "password"}},
		{name: "only password missing", req: registerRequest{FullName: strPtr("Ann"), Email: strPtr("a@x.com")}, missing: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.missing, missingFields(err, profileFields))
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	err := loginRequest{}.Validate()
	assert.Equal(t, []string{"email", "password"}, missingFields(err, loginFields))

	assert.NoError(t, loginRequest{Email: strPtr("a@x.com"), Password: strPtr("p1")}.Validate())
}

func TestMissingFields_NonValidationError(t *testing.T) {
	assert.Nil(t, missingFields(errors.New("boom"), profileFields))
	assert.Equal(t, "Missing fields email, password", missingFieldsMessage([]string{"email", "password"}))
}
