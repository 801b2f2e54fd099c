package ssl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SLSOCK_CONFIG_DIR", dir)

	data := "" +
		"keyfile: /flash/cert/client.key\n" +
		"certfile: /flash/cert/client.pem\n" +
		"server_side: false\n" +
		"cert_reqs: 2\n" +
		"ca_certs: /flash/cert/ca.pem\n"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "security.yml"), []byte(data), 0o600))

	cfg, err := LoadProfile("security")
	assert.NoError(t, err)
	assert.Equal(t, &WrapConfig{
		Keyfile:  "/flash/cert/client.key",
		Certfile: "/flash/cert/client.pem",
		CertReqs: CertRequired,
		CACerts:  "/flash/cert/ca.pem",
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadProfile_EmptyIsZeroConfig(t *testing.T) {
	t.Setenv("SLSOCK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadProfile("missing")
	assert.NoError(t, err)
	assert.Equal(t, &WrapConfig{}, cfg)
}
