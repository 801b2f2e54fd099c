package socket

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lattesec/slsock/pkg/drv"
	"github.com/lattesec/slsock/pkg/log"
)

type State uint8

const (
	StateOpen State = iota
	StateClosed
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	ErrDeviceRequired = errors.New("device is required")
	ErrSocketClosed   = errors.New("socket closed")
	ErrCreateFailed   = errors.New("socket creation failed")
)

// Base is the transport state of a socket. Wrapping layers copy it
// wholesale, so everything a derived handle needs to drive the
// descriptor lives here.
type Base struct {
	SD     drv.SD
	Family uint8
	Type   uint8
	Proto  uint8

	Secure       bool // descriptor carries TLS security options
	CertRequired bool // peer certificate validation is enforced
}

// Socket is a handle over a firmware-owned descriptor. The handle is
// thin: every operation forwards to the device, which does the real
// work.
type Socket struct {
	mu sync.RWMutex

	dev   drv.Device
	base  Base
	state State
}

// New allocates a descriptor on dev and returns its handle.
func New(dev drv.Device, family, typ, proto uint8) (*Socket, error) {
	if dev == nil {
		return nil, ErrDeviceRequired
	}

	sd, errno := dev.Socket(family, typ, proto)
	if errno < 0 {
		log.Debugf("socket create failed: family=%d type=%d proto=%d: %v", family, typ, proto, errno)
		return nil, errors.Join(ErrCreateFailed, fmt.Errorf("create socket: %w", errno))
	}

	return &Socket{
		dev: dev,
		base: Base{
			SD:     sd,
			Family: family,
			Type:   typ,
			Proto:  proto,
		},
		state: StateOpen,
	}, nil
}

// NewTCP allocates a plain TCP stream socket.
func NewTCP(dev drv.Device) (*Socket, error) {
	return New(dev, drv.AFInet, drv.SockStream, drv.ProtoTCP)
}

// Dial allocates a TCP socket and connects it to addr.
func Dial(dev drv.Device, addr drv.Addr) (*Socket, error) {
	s, err := NewTCP(dev)
	if err != nil {
		return nil, err
	}

	if err := s.Connect(addr); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

// Base returns a copy of the transport state.
func (s *Socket) Base() Base {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

func (s *Socket) SD() drv.SD {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.SD
}

func (s *Socket) Device() drv.Device { return s.dev }

func (s *Socket) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateOpen
}

func (s *Socket) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unsafeString()
}

func (s *Socket) unsafeString() string {
	return fmt.Sprintf("{sd: %d, family: %d, type: %d, proto: %d, state: %s, secure: %v}",
		s.base.SD, s.base.Family, s.base.Type, s.base.Proto, s.state.String(), s.base.Secure,
	)
}

func (s *Socket) unsafeLogf(format string, v ...any) string {
	return fmt.Sprintf("%s %s", s.unsafeString(), fmt.Sprintf(format, v...))
}

func (s *Socket) Logf(format string, v ...any) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unsafeLogf(format, v...)
}

func (s *Socket) Connect(addr drv.Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return ErrSocketClosed
	}

	log.Debugln(s.unsafeLogf("connecting to %s", addr))

	if errno := s.dev.Connect(s.base.SD, addr); errno < 0 {
		log.Debugln(s.unsafeLogf("connect %s failed: %v", addr, errno))
		return fmt.Errorf("connect %s: %w", addr, errno)
	}
	return nil
}

func (s *Socket) Bind(addr drv.Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return ErrSocketClosed
	}

	if errno := s.dev.Bind(s.base.SD, addr); errno < 0 {
		return fmt.Errorf("bind %s: %w", addr, errno)
	}
	return nil
}

func (s *Socket) Listen(backlog int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return ErrSocketClosed
	}

	if errno := s.dev.Listen(s.base.SD, backlog); errno < 0 {
		return fmt.Errorf("listen: %w", errno)
	}
	return nil
}

// Accept blocks until a peer connects and returns its handle. The
// accepted socket shares the listener's family, type and proto.
func (s *Socket) Accept() (*Socket, drv.Addr, error) {
	s.mu.RLock()
	if s.state != StateOpen {
		s.mu.RUnlock()
		return nil, drv.Addr{}, ErrSocketClosed
	}
	sd := s.base.SD
	base := s.base
	s.mu.RUnlock()

	asd, addr, errno := s.dev.Accept(sd)
	if errno < 0 {
		return nil, drv.Addr{}, fmt.Errorf("accept: %w", errno)
	}

	base.SD = asd
	return &Socket{dev: s.dev, base: base, state: StateOpen}, addr, nil
}

func (s *Socket) Read(p []byte) (int, error) {
	s.mu.RLock()
	if s.state != StateOpen {
		s.mu.RUnlock()
		return 0, ErrSocketClosed
	}
	sd := s.base.SD
	s.mu.RUnlock()

	n, errno := s.dev.Recv(sd, p)
	if errno < 0 {
		return n, fmt.Errorf("recv: %w", errno)
	}
	return n, nil
}

func (s *Socket) Write(p []byte) (int, error) {
	s.mu.RLock()
	if s.state != StateOpen {
		s.mu.RUnlock()
		return 0, ErrSocketClosed
	}
	sd := s.base.SD
	s.mu.RUnlock()

	n, errno := s.dev.Send(sd, p)
	if errno < 0 {
		return n, fmt.Errorf("send: %w", errno)
	}
	return n, nil
}

func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	log.Debugln(s.unsafeLogf("closing socket"))

	if errno := s.dev.Close(s.base.SD); errno < 0 {
		s.state = StateUnknown
		log.Errorln(s.unsafeLogf("failed to close socket: %v", errno))
		return fmt.Errorf("close: %w", errno)
	}

	s.state = StateClosed
	return nil
}
