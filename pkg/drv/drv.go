// Package drv declares the contract of a SimpleLink-class networking
// firmware. The firmware owns the transport and the whole TLS engine;
// everything above it only allocates descriptors and sets options.
//
// The numeric values in this package are part of the vendor ABI and
// must not be changed.
package drv

import "fmt"

// SD is a native socket descriptor. Negative values are invalid.
type SD int16

// Errno is a native firmware error code. Valid codes are negative,
// zero means success.
type Errno int16

func (e Errno) Error() string {
	return fmt.Sprintf("sl: errno %d", int16(e))
}

// Native error codes
const (
	SocError     Errno = -1
	EBADF        Errno = -9
	ENSOCK       Errno = -10 // descriptor table exhausted
	EAGAIN       Errno = -11
	ENOMEM       Errno = -12
	EINVAL       Errno = -22
	ENOTCONN     Errno = -107
	ECONNREFUSED Errno = -111
)

// Address families, socket types and protocols
const (
	AFInet uint8 = 2

	SockStream uint8 = 1
	SockDgram  uint8 = 2

	ProtoTCP uint8 = 6
	ProtoUDP uint8 = 17
)

// Socket option levels
const (
	SolSocket uint16 = 1
)

// Security options, settable at level SolSocket. The string-valued
// file options name entries in the firmware's file store, relative to
// its root.
const (
	SoSecMethod                      uint16 = 25
	SoSecureMask                     uint16 = 26
	SoSecureFilesPrivateKeyFileName  uint16 = 30
	SoSecureFilesCertificateFileName uint16 = 31
	SoSecureFilesCAFileName          uint16 = 32
	SoSecureFilesDHKeyFileName       uint16 = 33
)

// Values for SoSecMethod
const (
	SecMethodSSLv3 uint8 = iota
	SecMethodTLSv1
	SecMethodTLSv1_1
	SecMethodTLSv1_2
	SecMethodSSLv3TLSv1_2
	SecMethodDLSv1
)

// Addr is a transport endpoint as the firmware sees it.
type Addr struct {
	Host string
	Port uint16
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Device is the call surface of the firmware. Implementations perform
// the real work (including the TLS handshake once security options
// are in place); callers only forward.
//
// All methods report failure through a negative Errno.
type Device interface {
	Socket(family, typ, proto uint8) (SD, Errno)
	Connect(sd SD, addr Addr) Errno
	Bind(sd SD, addr Addr) Errno
	Listen(sd SD, backlog int) Errno
	Accept(sd SD) (SD, Addr, Errno)
	Send(sd SD, p []byte) (int, Errno)
	Recv(sd SD, p []byte) (int, Errno)
	SetSockOpt(sd SD, level, option uint16, val []byte) Errno
	Close(sd SD) Errno
}
