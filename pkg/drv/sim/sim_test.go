package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lattesec/slsock/pkg/drv"
)

func TestSim_DescriptorBudget(t *testing.T) {
	dev := New()
	defer dev.Shutdown()

	sds := make([]drv.SD, 0, maxSockets)
	for i := 0; i < maxSockets; i++ {
		sd, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
		assert.Equal(t, drv.Errno(0), errno)
		sds = append(sds, sd)
	}

	_, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.ENSOCK, errno)

	// releasing one descriptor makes room again
	assert.Equal(t, drv.Errno(0), dev.Close(sds[0]))
	_, errno = dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)
}

func TestSim_OptionRecordingAndFaults(t *testing.T) {
	dev := New()
	defer dev.Shutdown()

	sd, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)

	assert.Equal(t, drv.Errno(0),
		dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecMethod, []byte{drv.SecMethodTLSv1}))

	dev.FailOption(drv.SoSecureFilesCAFileName, drv.EAGAIN)
	assert.Equal(t, drv.EAGAIN,
		dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecureFilesCAFileName, []byte("/ca.pem")))

	// the failed attempt is logged but nothing is stored
	assert.Equal(t, []uint16{drv.SoSecMethod, drv.SoSecureFilesCAFileName}, dev.OptionLog())
	opts, ok := dev.Options(sd)
	assert.True(t, ok)
	_, hasCA := opts[drv.SoSecureFilesCAFileName]
	assert.False(t, hasCA)

	dev.ClearFaults()
	assert.Equal(t, drv.Errno(0),
		dev.SetSockOpt(sd, drv.SolSocket, drv.SoSecureFilesCAFileName, []byte("/ca.pem")))

	dev.ResetOptionLog()
	assert.Empty(t, dev.OptionLog())

	assert.Equal(t, drv.EBADF, dev.SetSockOpt(99, drv.SolSocket, drv.SoSecMethod, nil))
}

func TestSim_CloseReleasesBind(t *testing.T) {
	dev := New()
	defer dev.Shutdown()

	sd, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)
	assert.Equal(t, drv.Errno(0), dev.Bind(sd, drv.Addr{Host: "loop", Port: 8080}))

	other, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)
	assert.Equal(t, drv.EINVAL, dev.Bind(other, drv.Addr{Host: "loop", Port: 8080}))

	assert.Equal(t, drv.Errno(0), dev.Close(sd))
	assert.Equal(t, drv.Errno(0), dev.Bind(other, drv.Addr{Host: "loop", Port: 8080}))
}

func TestSim_ConnectToUnboundPort(t *testing.T) {
	dev := New()
	defer dev.Shutdown()

	sd, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)
	assert.Equal(t, drv.ECONNREFUSED, dev.Connect(sd, drv.Addr{Host: "loop", Port: 1}))
}

func TestSim_IOWithoutConnection(t *testing.T) {
	dev := New()
	defer dev.Shutdown()

	sd, errno := dev.Socket(drv.AFInet, drv.SockStream, drv.ProtoTCP)
	assert.Equal(t, drv.Errno(0), errno)

	_, errno = dev.Send(sd, []byte("x"))
	assert.Equal(t, drv.ENOTCONN, errno)
	_, errno = dev.Recv(sd, make([]byte, 1))
	assert.Equal(t, drv.ENOTCONN, errno)
}
