package apidoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when page metadata cannot be loaded or
// fails validation.
var ErrInvalidConfig = errors.New("invalid page config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// PageConfig is the metadata written into the info object of a page.
// Empty fields are left out of the document, except for the title and
// version which get placeholders.
//
// See: https://spec.openapis.org/oas/v3.0.3#info-object
type PageConfig struct {
	Title          string `yaml:"title" json:"title,omitempty"`
	Description    string `yaml:"description" json:"description,omitempty"`
	TermsOfService string `yaml:"terms_of_service" json:"terms_of_service,omitempty" validate:"omitempty,url"`
	ContactName    string `yaml:"contact_name" json:"contact_name,omitempty"`
	ContactURL     string `yaml:"contact_url" json:"contact_url,omitempty" validate:"omitempty,url"`
	ContactEmail   string `yaml:"contact_email" json:"contact_email,omitempty" validate:"omitempty,email"`
	LicenseName    string `yaml:"license_name" json:"license_name,omitempty"`
	LicenseURL     string `yaml:"license_url" json:"license_url,omitempty" validate:"omitempty,url"`
	Version        string `yaml:"version" json:"version,omitempty"`

	// Filename is the name the page is served under by SwaggerUI.
	Filename string `yaml:"filename" json:"filename,omitempty" validate:"omitempty,endswith=.json,excludesall=/"`
}

// Validate checks the URLs, the contact email and the file name.
func (c PageConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParsePageConfig decodes and validates a YAML page config. Unknown keys
// are rejected.
func ParsePageConfig(data []byte) (PageConfig, error) {
	var c PageConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return PageConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return PageConfig{}, err
	}
	return c, nil
}

// LoadPageConfig reads a YAML page config from path.
func LoadPageConfig(path string) (PageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PageConfig{}, fmt.Errorf("read page config: %w", err)
	}
	return ParsePageConfig(data)
}
