package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntaxFromBytes(t *testing.T) {
	tests := map[string]struct {
		data     string
		wantErr  bool
		wantLine bool
	}{
		"valid":           {data: "file_globs: CHANGELOG.md\nlog:\n  level: info\n"},
		"blank":           {data: " \n\t\n"},
		"unclosed flow":   {data: "file_globs: [unclosed\n", wantErr: true, wantLine: true},
		"tab indentation": {data: "log:\n\tlevel: info\n", wantErr: true, wantLine: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateYAMLSyntaxFromBytes([]byte(tt.data), "c.yml")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "c.yml", verr.FilePath)
			if tt.wantLine {
				assert.Greater(t, verr.Line, 0)
				assert.Greater(t, verr.Column, 0)
				assert.NotContains(t, verr.Message, "yaml: line")
			}
		})
	}
}

func TestValidateYAMLSyntax_MissingFile(t *testing.T) {
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(t.TempDir(), "absent.yml")))
}

func TestValidateYAMLSyntax_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: [\n"), 0o644))

	var verr *ValidationError
	require.ErrorAs(t, ValidateYAMLSyntax(path), &verr)
	assert.Contains(t, verr.Error(), path+":")
}

func TestValidationError_Error(t *testing.T) {
	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"position": {err: ValidationError{FilePath: "c.yml", Line: 3, Column: 2, Message: "bad"}, want: "c.yml:3:2: bad"},
		"field":    {err: ValidationError{FilePath: "config", Field: "http_method", Message: "bad"}, want: "config: field 'http_method': bad"},
		"plain":    {err: ValidationError{FilePath: "c.yml", Message: "config file not found"}, want: "c.yml: config file not found"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValidateConfigValues_Messages(t *testing.T) {
	cfg := &Configuration{
		EntrySeparatorRegex: DefaultSeparator,
		HTTPMethod:          "DELETE",
		WebhookTimeout:      DefaultWebhookTimeout,
	}
	err := ValidateConfigValues(cfg, "config")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "http_method", verr.Field)
	assert.Equal(t, `must be one of: GET POST PUT PATCH (got "DELETE")`, verr.Message)
}
