package sim

import (
	"fmt"

	"github.com/lattesec/log"
	"github.com/lattesec/slsock/internal/helpers/nopanic"
	"github.com/lattesec/slsock/pkg/drv"
)

// Serve binds a listener on port and dispatches every accepted
// descriptor to handler on its own goroutine. The handler owns the
// descriptor and should close it. The returned stop func closes the
// listener and ends the accept loop.
func (s *Sim) Serve(port uint16, handler func(sd drv.SD)) (stop func(), err error) {
	sd, errno := s.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	if errno < 0 {
		return nil, fmt.Errorf("serve: socket: %w", errno)
	}
	if errno := s.Bind(sd, drv.Addr{Host: "loop", Port: port}); errno < 0 {
		_ = s.Close(sd)
		return nil, fmt.Errorf("serve: bind: %w", errno)
	}
	if errno := s.Listen(sd, defaultBacklog); errno < 0 {
		_ = s.Close(sd)
		return nil, fmt.Errorf("serve: listen: %w", errno)
	}

	go func() {
		for {
			asd, peer, errno := s.Accept(sd)
			if errno < 0 {
				log.Debug().
					WithMeta("scope", "sim").
					WithMetaf("port", "%d", port).
					Msgf("accept loop done: %v", errno).Send()
				return
			}

			log.Debug().
				WithMeta("scope", "sim").
				WithMeta("peer", peer.String()).
				WithMetaf("sd", "%d", asd).
				Msg("accepted").Send()

			go nopanic.NoPanicRunVoid(fmt.Sprintf("sim handler sd=%d", asd), func() {
				handler(asd)
			})
		}
	}()

	return func() { _ = s.Close(sd) }, nil
}
