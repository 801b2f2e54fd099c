package ssl

import (
	"github.com/lattesec/slsock/internal/env"
)

// Profile is the YAML shape of a security profile, as loaded from the
// config dirs (see internal/env). cert_reqs uses the numeric levels:
// 0 none, 1 optional, 2 required.
type Profile struct {
	Keyfile    string `yaml:"keyfile"`
	Certfile   string `yaml:"certfile"`
	ServerSide bool   `yaml:"server_side"`
	CertReqs   int    `yaml:"cert_reqs"`
	CACerts    string `yaml:"ca_certs"`
}

func (p *Profile) WrapConfig() *WrapConfig {
	return &WrapConfig{
		Keyfile:    p.Keyfile,
		Certfile:   p.Certfile,
		ServerSide: p.ServerSide,
		CertReqs:   CertReq(p.CertReqs),
		CACerts:    p.CACerts,
	}
}

// LoadProfile merges the named profile from every config dir and
// returns the resulting wrap configuration. The config is not
// validated here; WrapSocket does that.
func LoadProfile(name string) (*WrapConfig, error) {
	var p Profile
	if err := env.NewLoader().Load(name, &p); err != nil {
		return nil, err
	}
	return p.WrapConfig(), nil
}
