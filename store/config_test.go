package store_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/kbolino/mingit/store"
)

func TestWriteDefaultConfigWritesCoreSection(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(".git", 0o755))
	require.NoError(t, store.WriteDefaultConfig(fs, ".git"))

	data, err := afero.ReadFile(fs, ".git/config")
	require.NoError(t, err)

	cfg, err := ini.Load(data)
	require.NoError(t, err)
	core := cfg.Section("core")
	assert.Equal(t, "0", core.Key("repositoryformatversion").String())
	assert.Equal(t, "true", core.Key("filemode").String())
	assert.Equal(t, "false", core.Key("bare").String())
	assert.Equal(t, "true", core.Key("logallrefupdates").String())
}
