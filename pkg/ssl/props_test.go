package ssl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/lattesec/slsock/pkg/drv"
	"github.com/lattesec/slsock/pkg/drv/sim"
	"github.com/lattesec/slsock/pkg/socket"
)

// drawPath draws either an absent path or an absolute file-store path.
func drawPath(t *rapid.T, label string) string {
	if !rapid.Bool().Draw(t, label+"_present") {
		return ""
	}
	return RootPrefix + "/" + rapid.StringMatching(`[a-z0-9/._-]{1,24}`).Draw(t, label)
}

func TestWrapSocket_ValidationLaws(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := &WrapConfig{
			Keyfile:    drawPath(t, "keyfile"),
			Certfile:   drawPath(t, "certfile"),
			ServerSide: rapid.Bool().Draw(t, "server_side"),
			CertReqs:   CertReq(rapid.IntRange(0, 2).Draw(t, "cert_reqs")),
			CACerts:    drawPath(t, "ca_certs"),
		}

		dev := sim.New()
		defer dev.Shutdown()

		s, err := socket.NewTCP(dev)
		assert.NoError(t, err)

		valid := !(cfg.CertReqs != CertNone && cfg.CACerts == "") &&
			!(cfg.ServerSide && (cfg.Keyfile == "" || cfg.Certfile == ""))

		wrapped, err := WrapSocket(s, cfg)
		if !valid {
			assert.ErrorIs(t, err, ErrInvalidArguments)
			assert.Nil(t, wrapped)
			assert.Empty(t, dev.OptionLog(),
				"invalid requests must not touch the descriptor")
			return
		}

		assert.NoError(t, err)
		assert.NotNil(t, wrapped)

		opts, ok := dev.Options(s.SD())
		assert.True(t, ok)

		// the method is always set first
		calls := dev.OptionLog()
		assert.NotEmpty(t, calls)
		assert.Equal(t, drv.SoSecMethod, calls[0])
		assert.Equal(t, []byte{drv.SecMethodTLSv1}, opts[drv.SoSecMethod])

		// file options are forwarded exactly when present, names
		// stripped of the root prefix
		key, hasKey := opts[drv.SoSecureFilesPrivateKeyFileName]
		assert.Equal(t, cfg.Keyfile != "", hasKey)
		if hasKey {
			assert.Equal(t, cfg.Keyfile[RootPrefixLen:], string(key))
		}

		cert, hasCert := opts[drv.SoSecureFilesCertificateFileName]
		assert.Equal(t, cfg.Certfile != "", hasCert)
		if hasCert {
			assert.Equal(t, cfg.Certfile[RootPrefixLen:], string(cert))
		}

		// the CA reaches the firmware only under REQUIRED
		ca, hasCA := opts[drv.SoSecureFilesCAFileName]
		assert.Equal(t, cfg.CACerts != "" && cfg.CertReqs == CertRequired, hasCA)
		if hasCA {
			assert.Equal(t, cfg.CACerts[RootPrefixLen:], string(ca))
		}

		assert.Equal(t, cfg.CertReqs == CertRequired, wrapped.CertRequired())
		assert.Equal(t, s.SD(), wrapped.SD())
	})
}
