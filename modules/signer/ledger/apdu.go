package ledger

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
)

// StatusOK is the status word of a successful exchange.
const StatusOK uint16 = 0x9000

// maxCommandData is the largest payload a single command can carry.
const maxCommandData = 255

// Generic instructions understood by every Ledger app.
const (
	InsGetVersion = 0x00

	claDashboard  = 0xb0
	insGetAppInfo = 0x01
)

// Chunk markers carried in P1 of sign commands.
const (
	ChunkInit byte = 0x00
	ChunkAdd  byte = 0x01
	ChunkLast byte = 0x02

	// ChunkSize is the size of every message chunk but the last.
	ChunkSize = 250
	// MaxChunks is the largest number of message chunks a sign request may use.
	MaxChunks = 255
)

// Command is an APDU command.
type Command struct {
	CLA  byte
	INS  byte
	P1   byte
	P2   byte
	Data []byte
}

// Serialize encodes the command as CLA INS P1 P2 Lc Data.
func (c Command) Serialize() ([]byte, error) {
	if len(c.Data) > maxCommandData {
		return nil, errorsmod.Wrapf(ErrMessageTooLarge, "command data is %d bytes, maximum is %d", len(c.Data), maxCommandData)
	}

	bz := make([]byte, 0, 5+len(c.Data))
	bz = append(bz, c.CLA, c.INS, c.P1, c.P2, byte(len(c.Data)))
	return append(bz, c.Data...), nil
}

// ParseCommand decodes a serialized command.
func ParseCommand(bz []byte) (Command, error) {
	if len(bz) < 5 {
		return Command{}, errorsmod.Wrapf(ErrResponseTooShort, "command is %d bytes", len(bz))
	}
	if int(bz[4]) != len(bz)-5 {
		return Command{}, errorsmod.Wrapf(ErrMessageTooLarge, "command declares %d data bytes, carries %d", bz[4], len(bz)-5)
	}

	return Command{
		CLA:  bz[0],
		INS:  bz[1],
		P1:   bz[2],
		P2:   bz[3],
		Data: bytes.Clone(bz[5:]),
	}, nil
}

// Response is an APDU response: the body followed by a two byte status word.
type Response struct {
	StatusWord uint16
	Data       []byte
}

// ParseResponse splits a raw response into its body and status word.
func ParseResponse(bz []byte) (Response, error) {
	if len(bz) < 2 {
		return Response{}, errorsmod.Wrapf(ErrResponseTooShort, "expected at least 2 bytes, got %d", len(bz))
	}

	n := len(bz) - 2
	return Response{
		StatusWord: uint16(bz[n])<<8 | uint16(bz[n+1]),
		Data:       bytes.Clone(bz[:n]),
	}, nil
}

// Serialize encodes the response as Data SW1 SW2.
func (r Response) Serialize() []byte {
	bz := make([]byte, 0, len(r.Data)+2)
	bz = append(bz, r.Data...)
	return append(bz, byte(r.StatusWord>>8), byte(r.StatusWord))
}

// Err returns a *StatusWordError unless the status word is StatusOK.
func (r Response) Err() error {
	if r.StatusWord == StatusOK {
		return nil
	}
	return NewStatusWordError(r.StatusWord)
}
