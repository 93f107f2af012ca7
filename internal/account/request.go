package account

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Fields are pointers so that an absent key can be told apart from an empty
// string. Only absence (or null) counts as missing.
type registerRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

var profileFields = []string{"full_name", "email", "password"}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.NotNil),
		validation.Field(&r.Email, validation.NotNil),
		validation.Field(&r.Password, validation.NotNil),
	)
}

func (r registerRequest) input() UserInput {
	return UserInput{FullName: *r.FullName, Email: *r.Email, Password: *r.Password}
}

type updateRequest = registerRequest

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

var loginFields = []string{"email", "password"}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NotNil),
		validation.Field(&r.Password, validation.NotNil),
	)
}

// missingFields lists the fields that failed validation, in declared order.
func missingFields(err error, declared []string) []string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	missing := make([]string, 0, len(errs))
	for _, name := range declared {
		if _, ok := errs[name]; ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func missingFieldsMessage(fields []string) string {
	return "Missing fields " + strings.Join(fields, ", ")
}
