// Package entity defines the request and response shapes of the JSON API
// together with their validation rules.
package entity

import (
	"fmt"
	"strings"

	"github.com/vocabnest/vocabnest/database/model"
	"github.com/vocabnest/vocabnest/util/crypto"

	"github.com/goccy/go-json"
)

// Msg is the body of every non-resource response.
type Msg struct {
	Message string `json:"message"`
}

// Health is the body of the health endpoint.
type Health struct {
	Status string `json:"status"`
}

// UserView is a user as exposed by the API. The password hash never leaves the server.
type UserView struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

// NewUserView strips the credential from u.
func NewUserView(u *model.User) UserView {
	return UserView{Id: u.Id, Username: u.Username}
}

// Validation rules reported by FieldError.
const (
	RuleInvalid  = "invalid"  // body is not a JSON object
	RuleType     = "type"     // field has the wrong JSON type
	RuleRequired = "required" // field is missing or null
	RuleEmpty    = "empty"    // field is empty or whitespace only
	RuleTooLong  = "tooLong"  // field exceeds its byte limit
)

// FieldError is the first rule a request body violated.
type FieldError struct {
	Field string
	Rule  string
	Limit int
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case RuleInvalid:
		return "Validation error: request body must be a JSON object"
	case RuleType:
		return fmt.Sprintf("Validation error: %s must be a string", e.Field)
	case RuleRequired:
		return fmt.Sprintf("Validation error: %s is required", e.Field)
	case RuleEmpty:
		return fmt.Sprintf("Validation error: %s must not be empty", e.Field)
	case RuleTooLong:
		return fmt.Sprintf("Validation error: %s must be at most %d bytes", e.Field, e.Limit)
	default:
		return "Validation error: " + e.Field
	}
}

// AuthForm is the body of register and login.
type AuthForm struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// CheckValid reports the first violated rule, checking fields in order.
func (f *AuthForm) CheckValid() error {
	if err := checkString("username", f.Username, false); err != nil {
		return err
	}
	if err := checkString("password", f.Password, false); err != nil {
		return err
	}
	if len(*f.Password) > crypto.MaxPasswordBytes {
		return &FieldError{Field: "password", Rule: RuleTooLong, Limit: crypto.MaxPasswordBytes}
	}
	return nil
}

// EntryForm is the body of entry create and update. All three fields are
// required on both.
type EntryForm struct {
	Term       *string `json:"term"`
	Definition *string `json:"definition"`
	Example    *string `json:"example"`
}

// CheckValid reports the first violated rule, checking fields in order.
func (f *EntryForm) CheckValid() error {
	if err := checkString("term", f.Term, true); err != nil {
		return err
	}
	if err := checkString("definition", f.Definition, true); err != nil {
		return err
	}
	return checkString("example", f.Example, true)
}

// Fields returns the validated values. Call CheckValid first.
func (f *EntryForm) Fields() model.EntryFields {
	return model.EntryFields{
		Term:       *f.Term,
		Definition: *f.Definition,
		Example:    *f.Example,
	}
}

// ParseAuthForm decodes and validates a register or login body.
func ParseAuthForm(data []byte) (*AuthForm, error) {
	obj, err := decode(data)
	if err != nil {
		return nil, err
	}
	form := &AuthForm{}
	if form.Username, err = stringField(obj, "username"); err != nil {
		return nil, err
	}
	if form.Password, err = stringField(obj, "password"); err != nil {
		return nil, err
	}
	if err := form.CheckValid(); err != nil {
		return nil, err
	}
	return form, nil
}

// ParseEntryForm decodes and validates an entry body. Unknown keys are ignored.
func ParseEntryForm(data []byte) (*EntryForm, error) {
	obj, err := decode(data)
	if err != nil {
		return nil, err
	}
	form := &EntryForm{}
	if form.Term, err = stringField(obj, "term"); err != nil {
		return nil, err
	}
	if form.Definition, err = stringField(obj, "definition"); err != nil {
		return nil, err
	}
	if form.Example, err = stringField(obj, "example"); err != nil {
		return nil, err
	}
	if err := form.CheckValid(); err != nil {
		return nil, err
	}
	return form, nil
}

// decode accepts a JSON object or null.
func decode(data []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &FieldError{Field: "body", Rule: RuleInvalid}
	}
	return obj, nil
}

// stringField returns nil for a missing or null key so that CheckValid
// reports it as required, in field order.
func stringField(obj map[string]any, field string) (*string, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, &FieldError{Field: field, Rule: RuleType}
	}
	return &s, nil
}

func checkString(field string, value *string, rejectBlank bool) error {
	if value == nil {
		return &FieldError{Field: field, Rule: RuleRequired}
	}
	if *value == "" || (rejectBlank && strings.TrimSpace(*value) == "") {
		return &FieldError{Field: field, Rule: RuleEmpty}
	}
	return nil
}
