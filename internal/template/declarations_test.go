package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/manifest"
)

func TestDeclarations_CheckRef(t *testing.T) {
	d := Declarations{
		User:   map[string]manifest.UserConfigField{"api_key": {Type: manifest.UserString, Title: "Key"}},
		System: map[string]manifest.SystemConfigField{"port": {Type: manifest.SystemPort, Title: "Port"}},
	}

	tests := []struct {
		ref     Ref
		wantErr error
	}{
		{Ref{NSUserConfig, "api_key"}, nil},
		{Ref{NSSystemConfig, "port"}, nil},
		{Ref{Name: "__dirname"}, nil},
		{Ref{Name: "DOWNLOADS"}, nil},
		{Ref{NSPlatform, "path_sep"}, nil},
		{Ref{NSOAuth, "access_token"}, nil},
		{Ref{NSUserConfig, "missing"}, ErrUndeclaredField},
		{Ref{NSSystemConfig, "hostname"}, ErrUndeclaredField},
		{Ref{Name: "PATH"}, ErrDeclaration},
		{Ref{NSPlatform, "kernel"}, ErrDeclaration},
		{Ref{NSOAuth, "refresh_token"}, ErrDeclaration},
		{Ref{"env", "HOME"}, ErrDeclaration},
	}
	for _, tt := range tests {
		t.Run(tt.ref.String(), func(t *testing.T) {
			err := d.CheckRef(tt.ref)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "CheckRef() error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestDeclarations_CheckUnknownFunction(t *testing.T) {
	tokens, err := Scan("${sha256(user_config.a)}")
	require.NoError(t, err)

	err = Declarations{}.Check(tokens[0].Expr)
	var de *DeclarationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "function", de.Kind)
	assert.Equal(t, "sha256", de.Name)
}

func TestUndeclaredFieldIsReferenceError(t *testing.T) {
	err := Declarations{}.CheckRef(Ref{NSUserConfig, "missing"})
	var re *ReferenceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "missing", re.Field)
	assert.True(t, errors.Is(err, ErrReference))
}
