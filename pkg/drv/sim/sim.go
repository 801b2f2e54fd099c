// Package sim is an in-memory stand-in for the networking firmware.
// It keeps a descriptor table, stores security options where tests can
// see them, and pairs loopback connections over byte pipes. It
// performs no cryptography; setting security options only records
// them, exactly as a test double should.
package sim

import (
	"io"
	"sync"

	"github.com/lattesec/log"
	"github.com/lattesec/slsock/internal/helpers/cleanup"
	"github.com/lattesec/slsock/pkg/drv"
)

// Matches the descriptor budget of the real firmware.
const maxSockets = 16

const defaultBacklog = 4

type sock struct {
	sd     drv.SD
	family uint8
	typ    uint8
	proto  uint8

	opts map[uint16][]byte // security options at level SolSocket

	listening bool
	bound     drv.Addr
	pending   chan *pipePair

	connected bool
	rd        *io.PipeReader
	wr        *io.PipeWriter
}

type pipePair struct {
	rd   *io.PipeReader
	wr   *io.PipeWriter
	peer drv.Addr
}

// Sim implements drv.Device.
type Sim struct {
	mu sync.Mutex

	nextSD drv.SD
	socks  map[drv.SD]*sock
	binds  map[uint16]*sock

	faults map[uint16]drv.Errno // option code -> injected errno
	optLog []uint16             // every attempted SetSockOpt, in order

	cleanupID uint64
}

var _ drv.Device = (*Sim)(nil)

func New() *Sim {
	s := &Sim{
		socks:  make(map[drv.SD]*sock),
		binds:  make(map[uint16]*sock),
		faults: make(map[uint16]drv.Errno),
	}
	s.cleanupID = cleanup.Register(s.Shutdown)
	return s
}

// Shutdown closes every live descriptor and detaches the device from
// the exit cleanup registry.
func (s *Sim) Shutdown() error {
	s.mu.Lock()
	socks := make([]*sock, 0, len(s.socks))
	for _, sk := range s.socks {
		socks = append(socks, sk)
	}
	s.socks = make(map[drv.SD]*sock)
	s.binds = make(map[uint16]*sock)
	// teardown held under the lock so no Connect can race a closed
	// pending channel; pipe closes never block
	for _, sk := range socks {
		sk.teardown()
	}
	id := s.cleanupID
	s.cleanupID = 0
	s.mu.Unlock()

	if id != 0 {
		cleanup.Unregister(id)
	}

	log.Debug().
		WithMeta("scope", "sim").
		WithMetaf("closed", "%d", len(socks)).
		Msg("device shut down").Send()
	return nil
}

func (sk *sock) teardown() {
	if sk.rd != nil {
		_ = sk.rd.Close()
	}
	if sk.wr != nil {
		_ = sk.wr.Close()
	}
	if sk.pending != nil {
		close(sk.pending)
	}
}

func (s *Sim) Socket(family, typ, proto uint8) (drv.SD, drv.Errno) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.socks) >= maxSockets {
		return -1, drv.ENSOCK
	}

	sd := s.nextSD
	s.nextSD++
	s.socks[sd] = &sock{
		sd:     sd,
		family: family,
		typ:    typ,
		proto:  proto,
		opts:   make(map[uint16][]byte),
	}

	log.Debug().
		WithMeta("scope", "sim").
		WithMetaf("sd", "%d", sd).
		Msg("descriptor allocated").Send()
	return sd, 0
}

func (s *Sim) SetSockOpt(sd drv.SD, level, option uint16, val []byte) drv.Errno {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.socks[sd]
	if !ok {
		return drv.EBADF
	}

	s.optLog = append(s.optLog, option)

	if errno, ok := s.faults[option]; ok {
		log.Debug().
			WithMeta("scope", "sim").
			WithMetaf("sd", "%d", sd).
			WithMetaf("option", "%d", option).
			Msgf("injected fault: %v", errno).Send()
		return errno
	}

	if level != drv.SolSocket {
		return drv.EINVAL
	}

	sk.opts[option] = append([]byte(nil), val...)
	return 0
}

func (s *Sim) Bind(sd drv.SD, addr drv.Addr) drv.Errno {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.socks[sd]
	if !ok {
		return drv.EBADF
	}
	if _, taken := s.binds[addr.Port]; taken {
		return drv.EINVAL
	}

	sk.bound = addr
	s.binds[addr.Port] = sk
	return 0
}

func (s *Sim) Listen(sd drv.SD, backlog int) drv.Errno {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.socks[sd]
	if !ok {
		return drv.EBADF
	}
	if backlog <= 0 {
		backlog = defaultBacklog
	}

	sk.listening = true
	sk.pending = make(chan *pipePair, backlog)
	return 0
}

func (s *Sim) Connect(sd drv.SD, addr drv.Addr) drv.Errno {
	s.mu.Lock()
	sk, ok := s.socks[sd]
	if !ok {
		s.mu.Unlock()
		return drv.EBADF
	}

	ln, bound := s.binds[addr.Port]
	if !bound || !ln.listening {
		s.mu.Unlock()
		return drv.ECONNREFUSED
	}

	// two unidirectional pipes make one duplex loopback link
	c2sRd, c2sWr := io.Pipe()
	s2cRd, s2cWr := io.Pipe()

	// the pending channel is buffered, so the send below cannot block
	// while the device lock is held
	select {
	case ln.pending <- &pipePair{rd: c2sRd, wr: s2cWr, peer: drv.Addr{Host: "loop", Port: addr.Port}}:
		sk.connected = true
		sk.rd = s2cRd
		sk.wr = c2sWr
		s.mu.Unlock()
		return 0
	default:
		s.mu.Unlock()
		_ = c2sWr.Close()
		_ = s2cWr.Close()
		return drv.ECONNREFUSED
	}
}

func (s *Sim) Accept(sd drv.SD) (drv.SD, drv.Addr, drv.Errno) {
	s.mu.Lock()
	sk, ok := s.socks[sd]
	if !ok || !sk.listening {
		s.mu.Unlock()
		if !ok {
			return -1, drv.Addr{}, drv.EBADF
		}
		return -1, drv.Addr{}, drv.EINVAL
	}
	pending := sk.pending
	family, typ, proto := sk.family, sk.typ, sk.proto
	s.mu.Unlock()

	pair, ok := <-pending
	if !ok {
		return -1, drv.Addr{}, drv.EBADF
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.socks) >= maxSockets {
		_ = pair.rd.Close()
		_ = pair.wr.Close()
		return -1, drv.Addr{}, drv.ENSOCK
	}

	asd := s.nextSD
	s.nextSD++
	s.socks[asd] = &sock{
		sd:        asd,
		family:    family,
		typ:       typ,
		proto:     proto,
		opts:      make(map[uint16][]byte),
		connected: true,
		rd:        pair.rd,
		wr:        pair.wr,
	}
	return asd, pair.peer, 0
}

func (s *Sim) Send(sd drv.SD, p []byte) (int, drv.Errno) {
	s.mu.Lock()
	sk, ok := s.socks[sd]
	if !ok {
		s.mu.Unlock()
		return 0, drv.EBADF
	}
	if !sk.connected {
		s.mu.Unlock()
		return 0, drv.ENOTCONN
	}
	wr := sk.wr
	s.mu.Unlock()

	n, err := wr.Write(p)
	if err != nil {
		return n, drv.ENOTCONN
	}
	return n, 0
}

func (s *Sim) Recv(sd drv.SD, p []byte) (int, drv.Errno) {
	s.mu.Lock()
	sk, ok := s.socks[sd]
	if !ok {
		s.mu.Unlock()
		return 0, drv.EBADF
	}
	if !sk.connected {
		s.mu.Unlock()
		return 0, drv.ENOTCONN
	}
	rd := sk.rd
	s.mu.Unlock()

	n, err := rd.Read(p)
	if err == io.EOF {
		// peer closed; firmware reports a zero-length read
		return n, 0
	}
	if err != nil {
		return n, drv.ENOTCONN
	}
	return n, 0
}

func (s *Sim) Close(sd drv.SD) drv.Errno {
	s.mu.Lock()
	sk, ok := s.socks[sd]
	if !ok {
		s.mu.Unlock()
		return drv.EBADF
	}
	delete(s.socks, sd)
	if sk.bound.Port != 0 {
		delete(s.binds, sk.bound.Port)
	}
	sk.teardown()
	s.mu.Unlock()
	return 0
}
