package sim

import "github.com/lattesec/slsock/pkg/drv"

// Options returns a copy of the security options stored on sd.
func (s *Sim) Options(sd drv.SD) (map[uint16][]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.socks[sd]
	if !ok {
		return nil, false
	}

	out := make(map[uint16][]byte, len(sk.opts))
	for k, v := range sk.opts {
		out[k] = append([]byte(nil), v...)
	}
	return out, true
}

// OptionLog returns every SetSockOpt attempt seen so far, in call
// order, including attempts that failed.
func (s *Sim) OptionLog() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint16(nil), s.optLog...)
}

func (s *Sim) ResetOptionLog() {
	s.mu.Lock()
	s.optLog = nil
	s.mu.Unlock()
}

// FailOption makes every SetSockOpt on option fail with errno until
// cleared. The attempt is still recorded in the option log.
func (s *Sim) FailOption(option uint16, errno drv.Errno) {
	s.mu.Lock()
	s.faults[option] = errno
	s.mu.Unlock()
}

func (s *Sim) ClearFaults() {
	s.mu.Lock()
	s.faults = make(map[uint16]drv.Errno)
	s.mu.Unlock()
}
