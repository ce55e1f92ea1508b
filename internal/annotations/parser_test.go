package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/iocscan/internal/errors"
)

func TestParseMarker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Marker
	}{
		{
			name:     "initialize only",
			input:    "ioc::initialize",
			expected: Marker{},
		},
		{
			name:     "interface",
			input:    "ioc::initialize -Interface=IStore",
			expected: Marker{Interface: "IStore"},
		},
		{
			name:     "interface and name",
			input:    "ioc::initialize -Interface=IStore -Name=primary",
			expected: Marker{Interface: "IStore", Name: "primary"},
		},
		{
			name:     "qualified reference",
			input:    "ioc::initialize -Interface=example.com/plugins/store@v1.2.0#IStore",
			expected: Marker{Interface: "example.com/plugins/store@v1.2.0#IStore"},
		},
		{
			name:     "quoted name",
			input:    `ioc::initialize -Name="read replica" -Interface=IStore`,
			expected: Marker{Interface: "IStore", Name: "read replica"},
		},
		{
			name:     "dashed name",
			input:    "ioc::initialize -Name=read-only",
			expected: Marker{Name: "read-only"},
		},
		{
			name:     "comment prefix and spacing",
			input:    "  //ioc::initialize   -Interface=IStore  ",
			expected: Marker{Interface: "IStore"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMarker(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *m)
			assert.Equal(t, tt.expected.Interface != "", m.HasInterface())
		})
	}
}

func TestParse_KeepsRaw(t *testing.T) {
	a, err := Parse("ioc::initialize -Name=x")
	require.NoError(t, err)
	assert.Equal(t, KindInitialize, a.Kind)
	assert.Equal(t, "ioc::initialize -Name=x", a.Raw)
	assert.Equal(t, "x", a.GetString(ParamName))
	assert.Equal(t, "none", a.GetString(ParamInterface, "none"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		message    string
		suggestion string
	}{
		{name: "empty", input: "   ", message: "empty marker"},
		{name: "wrong namespace", input: "di::initialize", message: "unknown marker namespace", suggestion: "ioc::"},
		{name: "unknown directive", input: "ioc::inject", message: "unknown marker directive", suggestion: "ioc::initialize"},
		{name: "misspelled parameter", input: "ioc::initialize -interface=IStore", message: "unknown parameter", suggestion: "-Interface"},
		{name: "unknown parameter", input: "ioc::initialize -Mode=Singleton", message: "unknown parameter", suggestion: "-Interface, -Name"},
		{name: "duplicate", input: "ioc::initialize -Name=a -Name=b", message: "duplicate parameter"},
		{name: "missing value", input: "ioc::initialize -Name", message: "requires a value", suggestion: "-Name=<value>"},
		{name: "empty interface", input: `ioc::initialize -Interface=""`, message: "empty interface reference"},
		{name: "no separator", input: "ioc initialize", message: "unexpected token"},
		{name: "stray value", input: "ioc::initialize IStore", message: "unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMarker(tt.input)
			require.Error(t, err)

			var serr *errors.SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, errors.SyntaxErrorCode, serr.ErrorCode())
			assert.Contains(t, err.Error(), tt.message)
			if tt.suggestion != "" {
				require.NotEmpty(t, serr.Suggestions())
				assert.Contains(t, serr.Suggestions()[0], tt.suggestion)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindInitialize}, Kinds())
	assert.True(t, KindInitialize.Accepts(ParamInterface))
	assert.False(t, KindInitialize.Accepts("interface"))
	assert.False(t, Kind("inject").Known())
}
