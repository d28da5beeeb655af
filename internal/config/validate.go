package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changelog-notify/internal/changelog"
)

// ValidationError is a configuration problem: a YAML syntax error with its
// position, or an invalid value with its koanf key.
type ValidationError struct {
	// FilePath names the source: a file, or "config" for the merged layers.
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
	Err      error
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// yamlPosition matches the position prefix of a yaml.v3 syntax error.
var yamlPosition = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? (.*)$`)

// ValidateYAMLSyntax checks the syntax of a YAML file. A missing file is
// not an error.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, os.ErrPermission):
		return &ValidationError{FilePath: path, Message: "permission denied", Err: err}
	case err != nil:
		return &ValidationError{FilePath: path, Message: err.Error(), Err: err}
	}
	return ValidateYAMLSyntaxFromBytes(data, path)
}

// ValidateYAMLSyntaxFromBytes is ValidateYAMLSyntax for in-memory content.
// Blank content is valid.
func ValidateYAMLSyntaxFromBytes(data []byte, path string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return syntaxError(path, err)
	}
	return nil
}

// syntaxError converts a yaml.v3 error, keeping its line and column.
func syntaxError(path string, err error) *ValidationError {
	verr := &ValidationError{FilePath: path, Message: err.Error(), Err: err}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		verr.Message = strings.Join(typeErr.Errors, "; ")
		return verr
	}

	if m := yamlPosition.FindStringSubmatch(err.Error()); m != nil {
		verr.Line, _ = strconv.Atoi(m[1])
		verr.Column = 1
		if m[2] != "" {
			verr.Column, _ = strconv.Atoi(m[2])
		}
		verr.Message = m[3]
	}
	return verr
}

// ValidateConfigValues checks the struct constraints of cfg and that the
// entry separator compiles. Only the first violation is reported.
func ValidateConfigValues(cfg *Configuration, source string) error {
	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{FilePath: source, Field: fieldPath(fe), Message: describe(fe)}
		}
		return &ValidationError{FilePath: source, Message: err.Error(), Err: err}
	}

	if _, err := changelog.NewSplitter(cfg.EntrySeparatorRegex); err != nil {
		return &ValidationError{
			FilePath: source,
			Field:    "entry_separator_regex",
			Message:  err.Error(),
			Err:      err,
		}
	}
	return nil
}

// describe turns a failed validator tag into a short message.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s (got %q)", fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("must be an absolute URL (got %q)", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// fieldPath returns the dotted koanf key of a field, e.g. log.level.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// newValidator returns a validator that names fields by their koanf tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
