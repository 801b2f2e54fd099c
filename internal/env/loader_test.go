package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testCfg struct {
	Keyfile  string `yaml:"keyfile"`
	CertReqs int    `yaml:"cert_reqs"`
}

func writeConfig(t *testing.T, dir, name, data string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600))
}

func TestLoader_MergesIntoStruct(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(SLSOCK_CONFIG_DIR_ENV, dir)

	writeConfig(t, dir, "security.yml", "keyfile: /flash/cert/client.key\ncert_reqs: 2\n")

	var cfg testCfg
	assert.NoError(t, NewLoader().Load("security", &cfg))
	assert.Equal(t, "/flash/cert/client.key", cfg.Keyfile)
	assert.Equal(t, 2, cfg.CertReqs)
}

func TestLoader_RejectsNonPointer(t *testing.T) {
	var cfg testCfg
	assert.Error(t, NewLoader().Load("security", cfg))
}

func TestLoader_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv(SLSOCK_CONFIG_DIR_ENV, t.TempDir())

	var cfg testCfg
	assert.NoError(t, NewLoader().Load("does-not-exist", &cfg))
	assert.Zero(t, cfg)
}

func TestFromYAML_LoadsAndMerges(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "security.yml", "keyfile: /flash/a.key\n")
	writeConfig(t, dir, "override.yaml", "cert_reqs: 1\n")

	cfg := &testCfg{}

	load := MustFn(FromYAML[*testCfg](filepath.Join(dir, "security")))
	assert.NoError(t, load(cfg))

	override := MustFn(FromYAML[*testCfg](filepath.Join(dir, "override")))
	assert.NoError(t, override(cfg))

	assert.Equal(t, "/flash/a.key", cfg.Keyfile)
	assert.Equal(t, 1, cfg.CertReqs)
}

func TestFromYAML_RejectsForeignExtension(t *testing.T) {
	_, err := FromYAML[*testCfg]("security.json")
	assert.ErrorIs(t, err, ErrInvalidConfigFilename)
}
