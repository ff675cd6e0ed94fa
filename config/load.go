package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Gobusters/ectoenv"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/table"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("normalizer", func(fl validator.FieldLevel) bool {
		_, ok := normalizers.Get(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		_, err := table.LookupCodec(fl.Field().String())
		return err == nil
	})
	return v
}

// Load reads .env files that exist, then binds the environment onto a
// Config, then validates it. Variables already set in the environment win
// over .env files, and unset or empty variables take their env-default.
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	cfg.cleanLists()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config after flags have been applied
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: rule '%s' expected '%s', got '%v'", fe.StructField(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// cleanLists trims list items and drops empty ones, so "a, ,b" binds as [a b]
func (c *Config) cleanLists() {
	for _, list := range []*[]string{
		&c.NullTokens,
		&c.PrimaryCountries,
		&c.SecondaryCountries,
		&c.DomainNormalizers,
		&c.NameNormalizers,
		&c.KafkaBrokers,
	} {
		*list = cleanList(*list)
	}
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
