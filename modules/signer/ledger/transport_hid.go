package ledger

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/zondax/hid"
	ledger_go "github.com/zondax/ledger-go"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

const (
	vendorLedger    = 0x2c97
	usagePageLedger = 0xffa0

	hidChannel    = 0x0101
	hidTag        = 0x05
	hidPacketSize = 64

	hidReadAttempts = 8

	// channel(2) tag(1) sequence(2) length(2)
	firstPacketHeader = 7
	// channel(2) tag(1) sequence(2)
	packetHeader = 5
)

// hidDevice is the subset of *hid.Device used by the transport.
type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

var _ Transport = (*HIDTransport)(nil)

// HIDTransport talks to a Ledger over USB HID using the Ledger framing
// protocol. Only one exchange is in flight at a time.
type HIDTransport struct {
	logger log.Logger

	mtx    sync.Mutex
	device hidDevice
	// answer of an exchange whose context ended before it was read
	stale <-chan hidAnswer
}

// OpenHID opens the first attached Ledger device.
func OpenHID(logger log.Logger) (*HIDTransport, error) {
	if !hid.Supported() {
		return nil, errorsmod.Wrap(ErrDeviceNotFound, "hid is not supported on this platform")
	}

	for _, info := range hid.Enumerate(vendorLedger, 0) {
		if info.UsagePage != usagePageLedger && info.Interface != 0 {
			continue
		}

		device, err := info.Open()
		if err != nil {
			return nil, errorsmod.Wrapf(ErrDeviceNotFound, "unable to open %s: %s", info.Product, err)
		}

		logger.Info("opened ledger device", "product", info.Product, "path", info.Path)
		return newHIDTransport(device, logger), nil
	}

	return nil, errorsmod.Wrap(ErrDeviceNotFound, "no ledger attached, make sure it is connected and unlocked")
}

func newHIDTransport(device hidDevice, logger log.Logger) *HIDTransport {
	return &HIDTransport{
		logger: logger.With("module", "ledger-hid"),
		device: device,
	}
}

// Exchange implements Transport. The answer is read in the background so a
// canceled context returns immediately; the abandoned answer is drained by
// the next exchange before it writes.
func (t *HIDTransport) Exchange(ctx context.Context, cmd Command) (Response, error) {
	raw, err := cmd.Serialize()
	if err != nil {
		return Response{}, err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	if t.stale != nil {
		select {
		case <-t.stale:
			t.stale = nil
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}

	frames, err := ledger_go.WrapCommandAPDU(hidChannel, raw, hidPacketSize)
	if err != nil {
		return Response{}, err
	}

	for offset := 0; offset < len(frames); offset += hidPacketSize {
		end := min(offset+hidPacketSize, len(frames))
		if _, err := t.device.Write(frames[offset:end]); err != nil {
			return Response{}, errorsmod.Wrapf(ErrDeviceNotFound, "write to device: %s", err)
		}
	}

	done := make(chan hidAnswer, 1)
	go func() {
		answer, err := t.readAnswer()
		done <- hidAnswer{answer, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return Response{}, res.err
		}
		return ParseResponse(res.answer)
	case <-ctx.Done():
		t.stale = done
		t.logger.Debug("abandoned ledger answer", "err", ctx.Err())
		return Response{}, ctx.Err()
	}
}

type hidAnswer struct {
	answer []byte
	err    error
}

// readAnswer reads every packet of one framed answer and reassembles it.
func (t *HIDTransport) readAnswer() ([]byte, error) {
	first, err := t.readPacket()
	if err != nil {
		return nil, err
	}
	if len(first) < firstPacketHeader {
		return nil, errorsmod.Wrapf(ErrResponseTooShort, "hid packet is %d bytes", len(first))
	}
	if err := checkFrameHeader(first, 0); err != nil {
		return nil, err
	}

	n := packetCount(int(binary.BigEndian.Uint16(first[5:7])), hidPacketSize)
	pipe := make(chan []byte, n)
	pipe <- first
	for i := 1; i < n; i++ {
		packet, err := t.readPacket()
		if err != nil {
			return nil, err
		}
		if err := checkFrameHeader(packet, uint16(i)); err != nil {
			return nil, err
		}
		pipe <- packet
	}
	close(pipe)

	return ledger_go.UnwrapResponseAPDU(hidChannel, pipe, hidPacketSize)
}

// readPacket returns the next non-empty packet. All-zero packets are
// discarded and read errors are retried up to hidReadAttempts times.
func (t *HIDTransport) readPacket() ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < hidReadAttempts; attempt++ {
		buf := make([]byte, hidPacketSize)
		n, err := t.device.Read(buf)
		if err != nil {
			lastErr = err
			t.logger.Debug("hid read failed, retrying", "attempt", attempt+1, "err", err)
			continue
		}
		if isZeroPacket(buf[:n]) {
			continue
		}
		return buf[:n], nil
	}

	if lastErr == nil {
		return nil, errorsmod.Wrapf(ErrInvalidFrame, "no data after %d reads", hidReadAttempts)
	}
	return nil, errorsmod.Wrapf(ErrDeviceNotFound, "read from device: %s", lastErr)
}

func checkFrameHeader(packet []byte, sequence uint16) error {
	if len(packet) < packetHeader {
		return errorsmod.Wrapf(ErrResponseTooShort, "hid packet is %d bytes", len(packet))
	}
	if channel := binary.BigEndian.Uint16(packet[0:2]); channel != hidChannel {
		return errorsmod.Wrapf(ErrInvalidFrame, "channel %#04x, expected %#04x", channel, hidChannel)
	}
	if packet[2] != hidTag {
		return errorsmod.Wrapf(ErrInvalidFrame, "tag %#02x, expected %#02x", packet[2], hidTag)
	}
	if seq := binary.BigEndian.Uint16(packet[3:5]); seq != sequence {
		return errorsmod.Wrapf(ErrInvalidFrame, "sequence %d, expected %d", seq, sequence)
	}
	return nil
}

func isZeroPacket(packet []byte) bool {
	for _, b := range packet {
		if b != 0 {
			return false
		}
	}
	return true
}

// Close implements Transport.
func (t *HIDTransport) Close() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.device.Close()
}

// packetCount returns the number of packets needed to frame total bytes.
func packetCount(total, packetSize int) int {
	rest := total - (packetSize - firstPacketHeader)
	if rest <= 0 {
		return 1
	}
	perPacket := packetSize - packetHeader
	return 1 + (rest+perPacket-1)/perPacket
}
