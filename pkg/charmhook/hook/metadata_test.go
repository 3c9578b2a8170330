package hook_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
)

func TestParseUnitName(t *testing.T) {
	tests := []struct {
		in      string
		app     string
		index   int
		wantErr bool
	}{
		{in: "myapp/3", app: "myapp", index: 3},
		{in: "app/0", app: "app", index: 0},
		{in: "postgresql-k8s/12", app: "postgresql-k8s", index: 12},
		{in: "myapp", wantErr: true},
		{in: "myapp/", wantErr: true},
		{in: "/3", wantErr: true},
		{in: "myapp/-1", wantErr: true},
		{in: "myapp/+1", wantErr: true},
		{in: "myapp/x", wantErr: true},
		{in: "myapp/1/2", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			app, index, err := hook.ParseUnitName(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, hook.ErrMalformedUnitName))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.app, app)
			assert.Equal(t, tt.index, index)
		})
	}
}

func TestParseRelationID(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		id      int
		wantErr bool
	}{
		{in: "db:7", name: "db", id: 7},
		{in: "some-regular-relation:0", name: "some-regular-relation", id: 0},
		{in: "db:abc", wantErr: true},
		{in: "db:", wantErr: true},
		{in: ":7", wantErr: true},
		{in: "7", wantErr: true},
		{in: "db:-7", wantErr: true},
		{in: "db:7:8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, id, err := hook.ParseRelationID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, hook.ErrMalformedRelationID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestMetadataFromEnv(t *testing.T) {
	src := env.Map{
		env.ModelName:   "foo",
		env.ModelUUID:   "u1",
		env.UnitName:    "myapp/3",
		env.JujuVersion: "2.9",
	}

	meta, err := hook.MetadataFromEnv(src)
	require.NoError(t, err)
	assert.Equal(t, &hook.Metadata{
		Model:       "foo",
		ModelUUID:   "u1",
		App:         "myapp",
		Unit:        3,
		JujuVersion: "2.9",
	}, meta)
	assert.Equal(t, "myapp/3", meta.UnitName())
}

func TestMetadataFromEnv_Missing(t *testing.T) {
	for _, name := range []string{env.ModelName, env.ModelUUID, env.UnitName, env.JujuVersion} {
		t.Run(name, func(t *testing.T) {
			src := env.Map{
				env.ModelName:   "foo",
				env.ModelUUID:   "u1",
				env.UnitName:    "app/0",
				env.JujuVersion: "2.9",
			}
			delete(src, name)

			_, err := hook.MetadataFromEnv(src)
			var missing *env.MissingError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, name, missing.Name)
		})
	}
}

func TestMetadata_UnitNameNil(t *testing.T) {
	var m *hook.Metadata
	assert.Empty(t, m.UnitName())
}
