package transform

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
// greet the user
function greet(personName) {
    var message = "Hello, " + personName + "!";
    console.log(message);
    return message;
}
greet("world");
`

func ptr[T any](v T) *T { return &v }

func TestMerge(t *testing.T) {
	base := Options{Preset: PresetLow, KeepVarNames: true, Precision: 0, Version: 0}

	tests := []struct {
		name      string
		overrides Overrides
		want      Options
	}{
		{
			name:      "no overrides keeps base",
			overrides: Overrides{},
			want:      base,
		},
		{
			name:      "override one key",
			overrides: Overrides{KeepVarNames: ptr(false)},
			want:      Options{Preset: PresetLow, KeepVarNames: false},
		},
		{
			name:      "explicit zero value still wins",
			overrides: Overrides{Precision: ptr(0), Version: ptr(2020)},
			want:      Options{Preset: PresetLow, KeepVarNames: true, Precision: 0, Version: 2020},
		},
		{
			name:      "all keys",
			overrides: Overrides{Preset: ptr("custom"), KeepVarNames: ptr(false), Precision: ptr(3), Version: ptr(2016)},
			want:      Options{Preset: "custom", KeepVarNames: false, Precision: 3, Version: 2016},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := base
			got := Merge(base, tt.overrides)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, before, base, "Merge must not modify its base")
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("baseline preset when none named", func(t *testing.T) {
		opts, err := Resolve(Overrides{})
		require.NoError(t, err)
		assert.Equal(t, presets[BaselinePreset], opts)
	})

	t.Run("named preset with override", func(t *testing.T) {
		opts, err := Resolve(Overrides{Preset: ptr(PresetHigh), Version: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, PresetHigh, opts.Preset)
		assert.False(t, opts.KeepVarNames)
		assert.Equal(t, 0, opts.Version)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := Resolve(Overrides{Preset: ptr("extreme")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown preset")
	})
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{PresetDefault, PresetHigh, PresetLow, PresetMedium}, PresetNames())
	for _, name := range PresetNames() {
		opts, err := Preset(name)
		require.NoError(t, err)
		assert.Equal(t, name, opts.Preset)
		assert.NoError(t, opts.Validate())
	}
}

func TestOptions_Validate(t *testing.T) {
	assert.Error(t, Options{Precision: -1}.Validate())
	assert.Error(t, Options{Version: 6}.Validate())
	assert.NoError(t, Options{Version: 2020, Precision: 4}.Validate())
}

func TestOverrides_IsZero(t *testing.T) {
	assert.True(t, Overrides{}.IsZero())
	assert.False(t, Overrides{Version: ptr(0)}.IsZero())
}

func TestMinifyTransformer(t *testing.T) {
	tr := NewMinifyTransformer()
	ctx := context.Background()

	t.Run("deterministic", func(t *testing.T) {
		opts := presets[PresetMedium]
		first, err := tr.Transform(ctx, []byte(sample), opts)
		require.NoError(t, err)
		second, err := tr.Transform(ctx, []byte(sample), opts)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("output is smaller and drops comments", func(t *testing.T) {
		out, err := tr.Transform(ctx, []byte(sample), presets[PresetMedium])
		require.NoError(t, err)
		assert.Less(t, len(out), len(sample))
		assert.NotContains(t, string(out), "greet the user")
		assert.Contains(t, string(out), "Hello, ")
	})

	t.Run("keep var names", func(t *testing.T) {
		out, err := tr.Transform(ctx, []byte(sample), presets[PresetLow])
		require.NoError(t, err)
		assert.Contains(t, string(out), "personName")
	})

	t.Run("renames locals", func(t *testing.T) {
		out, err := tr.Transform(ctx, []byte(sample), presets[PresetMedium])
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(out), "personName"), "local parameter should be renamed: %s", out)
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := tr.Transform(ctx, nil, presets[PresetDefault])
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := tr.Transform(ctx, []byte("function ("), presets[PresetDefault])
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := tr.Transform(cctx, []byte(sample), presets[PresetDefault])
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTransformerFunc(t *testing.T) {
	var seen Options
	f := TransformerFunc(func(_ context.Context, src []byte, opts Options) ([]byte, error) {
		seen = opts
		return []byte(strings.ToUpper(string(src))), nil
	})

	out, err := f.Transform(context.Background(), []byte("abc"), Options{Preset: PresetHigh})
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(out))
	assert.Equal(t, PresetHigh, seen.Preset)
}
