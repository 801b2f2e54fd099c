// Package ssl turns a plain socket into a secure one by translating
// wrap configuration into native security options on the underlying
// descriptor. The firmware performs the TLS handshake itself on the
// first I/O after the connection is (re)established; nothing here
// touches the network.
package ssl

import (
	"errors"
	"fmt"

	"github.com/lattesec/slsock/pkg/drv"
	"github.com/lattesec/slsock/pkg/log"
	"github.com/lattesec/slsock/pkg/socket"
)

// CertReq controls whether peer certificate validation is enforced.
type CertReq int

const (
	CertNone CertReq = iota
	CertOptional
	CertRequired
)

// RootPrefix is the mount point of the on-device file store. The
// firmware's file registry resolves names relative to this root, so
// the leading RootPrefixLen bytes of every path are stripped before an
// option is set. The strip is by length only; the firmware contract
// expects absolute paths under the root and the content is not
// checked.
const RootPrefix = "/flash"

// RootPrefixLen is the number of leading path bytes dropped before a
// file name reaches the firmware.
const RootPrefixLen = len(RootPrefix)

var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrSocketRequired   = errors.New("socket is required")
)

// SSLError is the native firmware error carried by a failed option
// registration. Extract it with errors.As.
type SSLError = drv.Errno

// WrapConfig is the caller-supplied wrap request. All fields are
// optional; the zero value wraps with no identity and no peer
// validation.
type WrapConfig struct {
	Keyfile  string // private key file, absolute under RootPrefix
	Certfile string // certificate file, absolute under RootPrefix

	ServerSide bool // act as the TLS server for this connection

	CertReqs CertReq

	// CACerts is consulted only when CertReqs is CertRequired. With
	// CertOptional the path is accepted but never forwarded to the
	// firmware; this mirrors the observed device behavior.
	CACerts string
}

// Validate checks the cross-field invariants. Values of CertReqs
// outside the three constants are the caller's responsibility and are
// passed through.
func (c *WrapConfig) Validate() error {
	if c.CertReqs != CertNone && c.CACerts == "" {
		return ErrInvalidArguments
	}
	if c.ServerSide && (c.Keyfile == "" || c.Certfile == "") {
		return ErrInvalidArguments
	}
	return nil
}

// Socket is a secure socket handle. It holds a copy of the plain
// socket's transport state and a reference to the plain socket itself;
// both handles alias one descriptor and callers must serialize use.
type Socket struct {
	base  socket.Base
	dev   drv.Device
	plain *socket.Socket
}

// WrapSocket validates cfg and applies the security options to the
// descriptor of s, then returns a secure handle sharing its transport
// state. A nil cfg wraps with all defaults.
//
// On an option failure the native error code is returned wrapped and
// no handle is produced; options already applied are NOT rolled back,
// the descriptor may be left partially configured.
func WrapSocket(s *socket.Socket, cfg *WrapConfig) (*Socket, error) {
	if s == nil {
		return nil, errors.Join(ErrInvalidArguments, ErrSocketRequired)
	}
	if cfg == nil {
		cfg = &WrapConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dev := s.Device()
	sd := s.SD()

	log.Debugln(s.Logf("wrapping: server_side=%v cert_reqs=%d", cfg.ServerSide, cfg.CertReqs))

	method := []byte{drv.SecMethodTLSv1}
	if errno := dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecMethod, method); errno < 0 {
		return nil, fmt.Errorf("set security method: %w", errno)
	}

	if cfg.Keyfile != "" {
		name := []byte(stripRoot(cfg.Keyfile))
		if errno := dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecureFilesPrivateKeyFileName, name); errno < 0 {
			return nil, fmt.Errorf("register private key file: %w", errno)
		}
	}
	if cfg.Certfile != "" {
		name := []byte(stripRoot(cfg.Certfile))
		if errno := dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecureFilesCertificateFileName, name); errno < 0 {
			return nil, fmt.Errorf("register certificate file: %w", errno)
		}
	}
	if cfg.CACerts != "" && cfg.CertReqs == CertRequired {
		name := []byte(stripRoot(cfg.CACerts))
		if errno := dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecureFilesCAFileName, name); errno < 0 {
			return nil, fmt.Errorf("register CA file: %w", errno)
		}
	}

	// the secure socket inherits the plain socket's transport state
	base := s.Base()
	base.Secure = true
	base.CertRequired = cfg.CertReqs == CertRequired

	log.Debugln(s.Logf("wrapped: cert_required=%v", base.CertRequired))

	return &Socket{base: base, dev: dev, plain: s}, nil
}

// stripRoot drops the fixed root prefix from a file-store path. Paths
// shorter than the prefix yield an empty remainder.
func stripRoot(p string) string {
	if len(p) < RootPrefixLen {
		return ""
	}
	return p[RootPrefixLen:]
}

// Base returns a copy of the wrapper's transport state.
func (s *Socket) Base() socket.Base { return s.base }

func (s *Socket) SD() drv.SD { return s.base.SD }

// Plain returns the wrapped plain socket.
func (s *Socket) Plain() *socket.Socket { return s.plain }

// CertRequired reports whether peer certificate validation is
// enforced on this connection.
func (s *Socket) CertRequired() bool { return s.base.CertRequired }

func (s *Socket) String() string {
	return fmt.Sprintf("{sd: %d, secure: %v, cert_required: %v}",
		s.base.SD, s.base.Secure, s.base.CertRequired,
	)
}

func (s *Socket) Read(p []byte) (int, error) {
	n, errno := s.dev.Recv(s.base.SD, p)
	if errno < 0 {
		return n, fmt.Errorf("recv: %w", errno)
	}
	return n, nil
}

func (s *Socket) Write(p []byte) (int, error) {
	n, errno := s.dev.Send(s.base.SD, p)
	if errno < 0 {
		return n, fmt.Errorf("send: %w", errno)
	}
	return n, nil
}

// Close closes the shared descriptor through the plain socket, so
// both handles observe the teardown.
func (s *Socket) Close() error {
	return s.plain.Close()
}
