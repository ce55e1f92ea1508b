package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{UnknownErrorCode, "UnknownError"},
		{PreconditionErrorCode, "PreconditionError"},
		{LoadErrorCode, "LoadError"},
		{ManifestErrorCode, "ManifestError"},
		{SyntaxErrorCode, "SyntaxError"},
		{RegistrationErrorCode, "RegistrationError"},
		{ConfigurationErrorCode, "ConfigurationError"},
		{ErrorCode(99), "UnknownError"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.String())
	}
}

func TestOriginString(t *testing.T) {
	assert.Equal(t, "unknown origin", Origin{}.String())
	assert.True(t, Origin{Type: "Store"}.IsEmpty())
	assert.Equal(t, "example.com/app", Origin{Module: "example.com/app"}.String())
	assert.Equal(t, "example.com/app!plugins/x.iocm#Store",
		Origin{Module: "example.com/app", Resource: "plugins/x.iocm", Type: "Store"}.String())
}

func TestBaseError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := Wrap(LoadErrorCode, "failed to read", cause).
		WithOrigin(Origin{Module: "example.com/app"}).
		WithContext("size", 12).
		WithSuggestion("rebuild the bundle")

	assert.Equal(t, "example.com/app: failed to read: unexpected EOF", err.Error())
	assert.Equal(t, LoadErrorCode, err.ErrorCode())
	assert.Equal(t, map[string]interface{}{"size": 12}, err.Context())
	assert.Equal(t, []string{"rebuild the bundle"}, err.Suggestions())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	formatted := Wrapf(SyntaxErrorCode, io.EOF, "bad marker on '%s'", "Store").WithCause(io.ErrClosedPipe)
	assert.Equal(t, "bad marker on 'Store': io: read/write on closed pipe", formatted.Error())
	assert.ErrorIs(t, formatted, io.ErrClosedPipe)
	assert.Equal(t, "3 types", Newf(UnknownErrorCode, "%d types", 3).Error())

	plain := New(UnknownErrorCode, "boom")
	assert.Equal(t, "boom", plain.Error())
	assert.NotNil(t, plain.Context())
	assert.Empty(t, plain.Suggestions())
}

func TestConstructors(t *testing.T) {
	t.Run("precondition", func(t *testing.T) {
		err := NewPreconditionError("location", "must not be empty")
		assert.Equal(t, "invalid argument 'location': must not be empty", err.Error())
		assert.Equal(t, "location", err.Argument)
		assert.True(t, IsPrecondition(err))
		assert.False(t, IsLoad(err))
	})

	t.Run("load", func(t *testing.T) {
		err := NewLoadError("a.iocm", io.EOF).WithOrigin(Origin{Module: "host", Resource: "a.iocm"})
		assert.Equal(t, "host!a.iocm: failed to load module from 'a.iocm': EOF", err.Error())
		assert.True(t, IsLoad(err))
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("manifest", func(t *testing.T) {
		err := NewManifestError("types[0].kind", "unknown kind 'widget'").WithSuggestion("use 'concrete'")
		assert.Equal(t, "manifest field 'types[0].kind': unknown kind 'widget'", err.Error())
		assert.Equal(t, "types[0].kind", err.Field)
		assert.Equal(t, []string{"use 'concrete'"}, err.Suggestions())

		bare := NewManifestError("", "invalid YAML")
		assert.Equal(t, "invalid YAML", bare.Error())

		decode := NewManifestError("", "invalid YAML").WithCause(io.ErrUnexpectedEOF)
		assert.Equal(t, "invalid YAML: unexpected EOF", decode.Error())
		assert.ErrorIs(t, decode, io.ErrUnexpectedEOF)
	})

	t.Run("syntax with token", func(t *testing.T) {
		err := NewSyntaxErrorWithToken("unknown parameter", "-Iface", 17)
		assert.Equal(t, "unknown parameter at position 17: '-Iface'", err.Error())
		assert.Equal(t, "-Iface", err.Token)
		assert.Equal(t, 17, err.Position)
		assert.Equal(t, SyntaxErrorCode, CodeOf(err))
	})

	t.Run("registration", func(t *testing.T) {
		cause := fmt.Errorf("already provided")
		err := NewRegistrationError("convention", "app#IStore", "app#Store", cause)
		assert.Equal(t, "convention registration of 'app#Store' as 'app#IStore' failed: already provided", err.Error())

		initErr := NewRegistrationError("marker", "", "app#Store", cause)
		assert.Contains(t, initErr.Error(), "as 'initializer' failed")

		markerErr := NewMarkerError("app#Store", cause)
		assert.Equal(t, "marker registration of 'app#Store' failed: marker could not be resolved: already provided", markerErr.Error())
		assert.Equal(t, "marker", markerErr.Strategy)
		assert.Empty(t, markerErr.Interface)
		assert.ErrorIs(t, markerErr, cause)
	})
}

func TestWrappers(t *testing.T) {
	err := WrapWithOperation("read", "bundles", io.EOF)
	assert.Equal(t, "failed to read bundles: EOF", err.Error())
	assert.Equal(t, UnknownErrorCode, CodeOf(err))

	cfg := WrapConfigurationError("iocscan", "decode", io.EOF)
	assert.Equal(t, ConfigurationErrorCode, CodeOf(cfg))
	assert.Equal(t, "iocscan", cfg.Context()["config_type"])
	assert.Equal(t, "decode", cfg.Context()["operation"])
}

func TestCodeOfThroughWrapping(t *testing.T) {
	inner := NewLoadError("x.iocm", io.EOF)
	wrapped := fmt.Errorf("scanning: %w", inner)

	assert.Equal(t, LoadErrorCode, CodeOf(wrapped))
	assert.True(t, IsLoad(wrapped))
	assert.Equal(t, UnknownErrorCode, CodeOf(io.EOF))
	assert.Equal(t, UnknownErrorCode, CodeOf(nil))
}

func TestMultipleErrors(t *testing.T) {
	errs := NewMultipleErrors()
	assert.True(t, errs.IsEmpty())
	assert.NoError(t, errs.ErrorOrNil())
	assert.Equal(t, "no errors", errs.Error())

	var nilErrs *MultipleErrors
	assert.NoError(t, nilErrs.ErrorOrNil())

	errs.Add(NewManifestError("/types/0/kind", "value must be one of 'interface', 'concrete'"))
	assert.Equal(t, "manifest field '/types/0/kind': value must be one of 'interface', 'concrete'", errs.Error())

	errs.Add(NewPreconditionError("resource", "duplicate"))
	require.Error(t, errs.ErrorOrNil())
	assert.Contains(t, errs.Error(), "multiple errors (2 total):")
	assert.Contains(t, errs.Error(), "  2. invalid argument 'resource': duplicate")
	assert.True(t, errs.HasCode(PreconditionErrorCode))
	assert.False(t, errs.HasCode(LoadErrorCode))

	var me *ManifestError
	require.True(t, stderrors.As(errs, &me))
	assert.Equal(t, "/types/0/kind", me.Field)
	assert.Equal(t, ManifestErrorCode, CodeOf(errs))
	assert.True(t, IsPrecondition(errs))
}
