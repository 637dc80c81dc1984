// Package validation checks request bodies against JSON schemas before they
// reach the handlers.
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
)

const searchSchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string", "minLength": 2, "maxLength": 500},
		"limit": {"type": "integer", "minimum": 1, "maximum": 100}
	}
}`

const loginSchema = `{
	"type": "object",
	"required": ["username", "password"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"password": {"type": "string", "minLength": 1}
	}
}`

const registerSchema = `{
	"type": "object",
	"required": ["username", "email", "password"],
	"properties": {
		"username": {"type": "string", "minLength": 3, "maxLength": 64},
		"email": {"type": "string", "pattern": "@"},
		"password": {"type": "string", "minLength": 8, "maxLength": 128}
	}
}`

const compareSchema = `{
	"type": "object",
	"required": ["product_name"],
	"properties": {
		"product_name": {"type": "string", "minLength": 1, "maxLength": 200}
	}
}`

// Validator holds the compiled request schemas.
type Validator struct {
	search   *gojsonschema.Schema
	login    *gojsonschema.Schema
	register *gojsonschema.Schema
	compare  *gojsonschema.Schema
}

// New compiles the request schemas. Compilation failure is a programming
// error and is returned rather than deferred to request time.
func New() (*Validator, error) {
	v := &Validator{}
	var err error
	if v.search, err = compile(searchSchema); err != nil {
		return nil, err
	}
	if v.login, err = compile(loginSchema); err != nil {
		return nil, err
	}
	if v.register, err = compile(registerSchema); err != nil {
		return nil, err
	}
	if v.compare, err = compile(compareSchema); err != nil {
		return nil, err
	}
	return v, nil
}

func compile(schema string) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
}

func (v *Validator) Search(body []byte) error   { return validate(v.search, body) }
func (v *Validator) Login(body []byte) error    { return validate(v.login, body) }
func (v *Validator) Register(body []byte) error { return validate(v.register, body) }
func (v *Validator) Compare(body []byte) error  { return validate(v.compare, body) }

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.NewValidationError("request body must be valid JSON")
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewValidationError(strings.Join(errs, "; "))
	}
	return nil
}
