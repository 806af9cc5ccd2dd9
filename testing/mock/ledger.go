package mock

import (
	"context"
	"crypto/sha256"
	"sync"
	"sync/atomic"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/types/bech32"

	"github.com/cosmos/ibc-solo-machine/modules/signer/ledger"
)

// Status words answered by the emulated app.
const (
	StatusDeviceLocked    uint16 = 0x5515
	StatusDataInvalid     uint16 = 0x6984
	StatusSignRejected    uint16 = 0x6986
	StatusINSNotSupported uint16 = 0x6d00
	StatusCLANotSupported uint16 = 0x6e00
)

// Version reported by the emulated app.
var (
	AppVersion = []byte{0x00, 2, 34, 12, 0x00}
	AppFlags   = byte(0x00)
)

var _ ledger.Transport = (*Ledger)(nil)

// Ledger emulates a Ledger app behind the ledger.Transport boundary. Keys are
// derived from a mnemonic, public keys are returned compressed and signatures
// are 65 byte R||S||V signatures over sha256 of the message.
//
// The emulator keeps the device side sign session, so a sign chunk without a
// preceding init command is rejected. It also reports whether two exchanges
// were ever in flight at the same time.
type Ledger struct {
	app      ledger.App
	mnemonic string

	// Latency is added to every exchange.
	Latency time.Duration

	mtx        sync.Mutex
	locked     bool
	rejectSign bool
	session    *signSession
	commands   []ledger.Command
	closed     bool

	inFlight   atomic.Int32
	overlapped atomic.Bool
}

type signSession struct {
	path    ledger.BIP44Path
	message []byte
}

// NewLedger returns an unlocked emulated device running app.
func NewLedger(app ledger.App, mnemonic string) *Ledger {
	return &Ledger{
		app:      app,
		mnemonic: mnemonic,
	}
}

// SetLocked makes every following command fail as if the device was locked.
func (l *Ledger) SetLocked(locked bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.locked = locked
}

// SetRejectSign makes the user reject every following signature.
func (l *Ledger) SetRejectSign(reject bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.rejectSign = reject
}

// Commands returns every command received so far.
func (l *Ledger) Commands() []ledger.Command {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]ledger.Command(nil), l.commands...)
}

// Overlapped reports whether two exchanges were ever processed concurrently.
func (l *Ledger) Overlapped() bool {
	return l.overlapped.Load()
}

// Closed reports whether Close was called.
func (l *Ledger) Closed() bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.closed
}

// Exchange implements ledger.Transport.
func (l *Ledger) Exchange(ctx context.Context, cmd ledger.Command) (ledger.Response, error) {
	if l.inFlight.Add(1) > 1 {
		l.overlapped.Store(true)
	}
	defer l.inFlight.Add(-1)

	if l.Latency > 0 {
		select {
		case <-time.After(l.Latency):
		case <-ctx.Done():
			return ledger.Response{}, ctx.Err()
		}
	}

	raw, err := cmd.Serialize()
	if err != nil {
		return ledger.Response{}, err
	}
	return ledger.ParseResponse(l.HandleAPDU(raw))
}

// Close implements ledger.Transport.
func (l *Ledger) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.closed = true
	return nil
}

// PublicKey returns the compressed public key the device holds at path.
func (l *Ledger) PublicKey(path ledger.BIP44Path) ([]byte, error) {
	key, err := hd.Secp256k1.Derive()(l.mnemonic, "", path.String())
	if err != nil {
		return nil, err
	}
	privKey := &secp256k1.PrivKey{Key: key}
	return privKey.PubKey().Bytes(), nil
}

// HandleAPDU processes one serialized command and returns the serialized
// answer: body followed by the status word.
func (l *Ledger) HandleAPDU(raw []byte) []byte {
	cmd, err := ledger.ParseCommand(raw)
	if err != nil {
		return status(StatusDataInvalid)
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.commands = append(l.commands, cmd)

	if l.locked {
		return status(StatusDeviceLocked)
	}

	if cmd.CLA == 0xb0 && cmd.INS == 0x01 {
		return l.appInfo()
	}
	if cmd.CLA != l.app.CLA {
		return status(StatusCLANotSupported)
	}

	switch cmd.INS {
	case ledger.InsGetVersion:
		return ledger.Response{StatusWord: ledger.StatusOK, Data: AppVersion}.Serialize()
	case l.app.InsGetAddrSecp256k1:
		return l.getAddress(cmd)
	case l.app.InsSignSecp256k1:
		return l.sign(cmd)
	default:
		return status(StatusINSNotSupported)
	}
}

func (l *Ledger) appInfo() []byte {
	name, version := []byte(l.app.Name), []byte("2.34.12")

	data := []byte{0x01, byte(len(name))}
	data = append(data, name...)
	data = append(data, byte(len(version)))
	data = append(data, version...)
	data = append(data, 0x01, AppFlags)
	return ledger.Response{StatusWord: ledger.StatusOK, Data: data}.Serialize()
}

func (l *Ledger) getAddress(cmd ledger.Command) []byte {
	if len(cmd.Data) < 1 || len(cmd.Data) != 1+int(cmd.Data[0])+20 {
		return status(StatusDataInvalid)
	}

	prefix := string(cmd.Data[1 : 1+int(cmd.Data[0])])
	path, err := ledger.ParseSerializedBIP44Path(cmd.Data[1+int(cmd.Data[0]):])
	if err != nil {
		return status(StatusDataInvalid)
	}

	pubKey, err := l.PublicKey(path)
	if err != nil {
		return status(StatusDataInvalid)
	}

	address, err := bech32.ConvertAndEncode(prefix, (&secp256k1.PubKey{Key: pubKey}).Address())
	if err != nil {
		return status(StatusDataInvalid)
	}

	data := append(append([]byte{}, pubKey...), address...)
	return ledger.Response{StatusWord: ledger.StatusOK, Data: data}.Serialize()
}

func (l *Ledger) sign(cmd ledger.Command) []byte {
	switch cmd.P1 {
	case ledger.ChunkInit:
		path, err := ledger.ParseSerializedBIP44Path(cmd.Data)
		if err != nil {
			l.session = nil
			return status(StatusDataInvalid)
		}
		l.session = &signSession{path: path}
		return status(ledger.StatusOK)

	case ledger.ChunkAdd, ledger.ChunkLast:
		if l.session == nil {
			return status(StatusDataInvalid)
		}
		l.session.message = append(l.session.message, cmd.Data...)
		if cmd.P1 == ledger.ChunkAdd {
			return status(ledger.StatusOK)
		}

		session := l.session
		l.session = nil
		if l.rejectSign {
			return status(StatusSignRejected)
		}
		return l.signMessage(session)

	default:
		l.session = nil
		return status(StatusDataInvalid)
	}
}

func (l *Ledger) signMessage(session *signSession) []byte {
	key, err := hd.Secp256k1.Derive()(l.mnemonic, "", session.path.String())
	if err != nil {
		return status(StatusDataInvalid)
	}
	privKey, err := ethcrypto.ToECDSA(key)
	if err != nil {
		return status(StatusDataInvalid)
	}

	digest := sha256.Sum256(session.message)
	sig, err := ethcrypto.Sign(digest[:], privKey)
	if err != nil {
		return status(StatusDataInvalid)
	}
	return ledger.Response{StatusWord: ledger.StatusOK, Data: sig}.Serialize()
}

func status(sw uint16) []byte {
	return ledger.Response{StatusWord: sw}.Serialize()
}
