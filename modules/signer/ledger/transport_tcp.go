package ledger

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

var _ Transport = (*TCPTransport)(nil)

// TCPTransport talks to the APDU socket of a Speculos emulator. Commands are
// sent with a four byte big endian length prefix; answers carry the same
// prefix, counting the body only, followed by the data and the status word.
type TCPTransport struct {
	logger log.Logger

	mtx  sync.Mutex
	conn net.Conn
}

// DialTCP connects to the emulator listening on address.
func DialTCP(ctx context.Context, address string, logger log.Logger) (*TCPTransport, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrDeviceNotFound, "dial emulator %s: %s", address, err)
	}

	logger.Info("connected to ledger emulator", "address", address)
	return &TCPTransport{
		logger: logger.With("module", "ledger-tcp"),
		conn:   conn,
	}, nil
}

// Exchange implements Transport. Cancelling ctx aborts a pending read.
func (t *TCPTransport) Exchange(ctx context.Context, cmd Command) (Response, error) {
	raw, err := cmd.Serialize()
	if err != nil {
		return Response{}, err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	deadline, _ := ctx.Deadline()
	if err := t.conn.SetDeadline(deadline); err != nil {
		return Response{}, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = t.conn.SetDeadline(time.Now())
	})
	defer stop()

	resp, err := t.roundTrip(raw)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{}, ctxErr
		}
		return Response{}, err
	}
	return resp, nil
}

func (t *TCPTransport) roundTrip(raw []byte) (Response, error) {
	frame := make([]byte, 4+len(raw))
	binary.BigEndian.PutUint32(frame, uint32(len(raw)))
	copy(frame[4:], raw)
	if _, err := t.conn.Write(frame); err != nil {
		return Response{}, errorsmod.Wrapf(ErrDeviceNotFound, "write to emulator: %s", err)
	}

	var header [4]byte
	if _, err := io.ReadFull(t.conn, header[:]); err != nil {
		return Response{}, errorsmod.Wrapf(ErrResponseTooShort, "read answer length: %s", err)
	}

	answer := make([]byte, binary.BigEndian.Uint32(header[:])+2)
	if _, err := io.ReadFull(t.conn, answer); err != nil {
		return Response{}, errorsmod.Wrapf(ErrResponseTooShort, "read answer: %s", err)
	}

	return ParseResponse(answer)
}

// Close implements Transport.
func (t *TCPTransport) Close() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.conn.Close()
}
