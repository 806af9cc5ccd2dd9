package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/cosmos/ibc-solo-machine/modules/core/metrics"
)

// Version is the version reported by the open app.
type Version struct {
	Mode   byte
	Major  byte
	Minor  byte
	Patch  byte
	Locked bool
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AppInfo is the name and version of the app currently open on the device.
type AppInfo struct {
	Name    string
	Version string
	Flags   byte
}

// PubkeyAddress is the answer of a get address request.
type PubkeyAddress struct {
	PublicKey []byte
	Address   string
}

// Device runs the Ledger app protocol over a Transport. The device is a
// sequential state machine, so every exchange, and every chunked sign as a
// whole, holds the device lock. Concurrent callers queue.
//
// If a context is cancelled in the middle of a chunked sign the device
// session is undefined and must be assumed reset before reuse.
type Device struct {
	logger log.Logger
	app    App

	mtx       sync.Mutex
	transport Transport
}

// NewDevice returns a Device speaking the instruction table of app.
func NewDevice(transport Transport, app App, logger log.Logger) *Device {
	return &Device{
		logger:    logger.With("module", "ledger", "app", app.Name),
		app:       app,
		transport: transport,
	}
}

// App returns the instruction table in use.
func (d *Device) App() App {
	return d.app
}

// Close releases the transport.
func (d *Device) Close() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.transport.Close()
}

// GetVersion returns the version of the open app.
func (d *Device) GetVersion(ctx context.Context) (Version, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	resp, err := d.exchange(ctx, Command{CLA: d.app.CLA, INS: InsGetVersion})
	if err != nil {
		return Version{}, err
	}
	if len(resp.Data) < 4 {
		return Version{}, errorsmod.Wrapf(ErrInvalidVersion, "expected at least 4 bytes, got %d", len(resp.Data))
	}

	return Version{
		Mode:   resp.Data[0],
		Major:  resp.Data[1],
		Minor:  resp.Data[2],
		Patch:  resp.Data[3],
		Locked: len(resp.Data) > 4 && resp.Data[4] != 0,
	}, nil
}

// GetAppInfo returns the name and version of the app currently open.
func (d *Device) GetAppInfo(ctx context.Context) (AppInfo, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	resp, err := d.exchange(ctx, Command{CLA: claDashboard, INS: insGetAppInfo})
	if err != nil {
		return AppInfo{}, err
	}

	return parseAppInfo(resp.Data)
}

// GetPubkeyAddress asks the app for the public key and bech32 address at path.
// With requireConfirmation the user has to approve the address on screen.
func (d *Device) GetPubkeyAddress(ctx context.Context, accountPrefix string, path BIP44Path, requireConfirmation bool) (PubkeyAddress, error) {
	if len(accountPrefix) > maxCommandData {
		return PubkeyAddress{}, errorsmod.Wrapf(ErrMessageTooLarge, "account prefix is %d bytes", len(accountPrefix))
	}

	data := make([]byte, 0, 1+len(accountPrefix)+20)
	data = append(data, byte(len(accountPrefix)))
	data = append(data, accountPrefix...)
	data = append(data, path.Serialize()...)

	var p1 byte
	if requireConfirmation {
		p1 = 1
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	resp, err := d.exchange(ctx, Command{
		CLA:  d.app.CLA,
		INS:  d.app.InsGetAddrSecp256k1,
		P1:   p1,
		P2:   0,
		Data: data,
	})
	if err != nil {
		return PubkeyAddress{}, err
	}

	return parsePubkeyAddress(resp.Data, d.app.PubKeyLen)
}

// SignMessage signs message with the key at path. The path is sent in an
// init command and the message follows in ChunkSize chunks, the last one
// flagged with ChunkLast. Only the answer to the last chunk carries the
// signature.
func (d *Device) SignMessage(ctx context.Context, path BIP44Path, message []byte) ([]byte, error) {
	chunks, err := chunkMessage(message)
	if err != nil {
		return nil, err
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	resp, err := d.exchange(ctx, Command{
		CLA:  d.app.CLA,
		INS:  d.app.InsSignSecp256k1,
		P1:   ChunkInit,
		Data: path.Serialize(),
	})
	if err != nil {
		return nil, err
	}

	for i, chunk := range chunks {
		p1 := ChunkAdd
		if i == len(chunks)-1 {
			p1 = ChunkLast
		}

		resp, err = d.exchange(ctx, Command{
			CLA:  d.app.CLA,
			INS:  d.app.InsSignSecp256k1,
			P1:   p1,
			Data: chunk,
		})
		if err != nil {
			return nil, err
		}
	}

	return parseSignature(resp.Data, d.app.SignatureLen)
}

// exchange sends one command and fails on any status word but StatusOK.
// Callers must hold d.mtx.
func (d *Device) exchange(ctx context.Context, cmd Command) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	d.logger.Debug("apdu command", "cla", cmd.CLA, "ins", cmd.INS, "p1", cmd.P1, "p2", cmd.P2, "size", len(cmd.Data))

	instruction := fmt.Sprintf("0x%02x", cmd.INS)
	resp, err := d.transport.Exchange(ctx, cmd)
	if err != nil {
		metrics.APDUExchanges.WithLabelValues(instruction, metrics.ResultError).Inc()
		return Response{}, err
	}
	metrics.APDUExchanges.WithLabelValues(instruction, fmt.Sprintf("0x%04x", resp.StatusWord)).Inc()

	d.logger.Debug("apdu response", "status_word", fmt.Sprintf("0x%04x", resp.StatusWord), "size", len(resp.Data))

	if err := resp.Err(); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func chunkMessage(message []byte) ([][]byte, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}

	n := (len(message) + ChunkSize - 1) / ChunkSize
	if n > MaxChunks {
		return nil, errorsmod.Wrapf(ErrMessageTooLarge, "message needs %d chunks, maximum is %d", n, MaxChunks)
	}

	chunks := make([][]byte, 0, n)
	for offset := 0; offset < len(message); offset += ChunkSize {
		chunks = append(chunks, message[offset:min(offset+ChunkSize, len(message))])
	}
	return chunks, nil
}

// parsePubkeyAddress splits a get address body into the raw public key and
// the UTF-8 address that follows it.
func parsePubkeyAddress(data []byte, pubKeyLen int) (PubkeyAddress, error) {
	if len(data) < pubKeyLen {
		return PubkeyAddress{}, errorsmod.Wrapf(ErrInvalidPublicKey, "expected at least %d bytes, got %d", pubKeyLen, len(data))
	}

	address := data[pubKeyLen:]
	if !utf8.Valid(address) {
		return PubkeyAddress{}, errorsmod.Wrapf(ErrInvalidUTF8, "address bytes %x", address)
	}

	return PubkeyAddress{
		PublicKey: bytes.Clone(data[:pubKeyLen]),
		Address:   string(address),
	}, nil
}

// parseSignature returns the first signatureLen bytes of the final sign answer.
func parseSignature(data []byte, signatureLen int) ([]byte, error) {
	switch {
	case len(data) == 0:
		return nil, ErrNoSignature
	case len(data) < signatureLen:
		return nil, errorsmod.Wrapf(ErrInvalidSignature, "expected at least %d bytes, got %d", signatureLen, len(data))
	default:
		return bytes.Clone(data[:signatureLen]), nil
	}
}

// parseAppInfo decodes format(1) nameLen(1) name versionLen(1) version flagsLen(1) flags.
func parseAppInfo(data []byte) (AppInfo, error) {
	if len(data) < 2 || data[0] != 1 {
		return AppInfo{}, errorsmod.Wrap(ErrInvalidAppInfo, "unknown format")
	}

	rest := data[1:]
	name, rest, ok := readLengthPrefixed(rest)
	if !ok {
		return AppInfo{}, errorsmod.Wrap(ErrInvalidAppInfo, "truncated app name")
	}
	version, rest, ok := readLengthPrefixed(rest)
	if !ok {
		return AppInfo{}, errorsmod.Wrap(ErrInvalidAppInfo, "truncated app version")
	}

	info := AppInfo{Name: string(name), Version: string(version)}
	if flags, _, ok := readLengthPrefixed(rest); ok && len(flags) > 0 {
		info.Flags = flags[0]
	}
	return info, nil
}

func readLengthPrefixed(bz []byte) (value, rest []byte, ok bool) {
	if len(bz) < 1 || len(bz) < 1+int(bz[0]) {
		return nil, nil, false
	}
	n := int(bz[0])
	return bz[1 : 1+n], bz[1+n:], true
}
