package ibctesting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cosmossdk.io/log"

	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/gogoproto/proto"

	clienttypes "github.com/cosmos/ibc-go/v10/modules/core/02-client/types"
	solomachine "github.com/cosmos/ibc-go/v10/modules/light-clients/06-solomachine"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
	"github.com/cosmos/ibc-solo-machine/modules/core/store"
	"github.com/cosmos/ibc-solo-machine/modules/signer"
	"github.com/cosmos/ibc-solo-machine/modules/signer/mnemonic"
)

// DefaultDiversifier is the diversifier used by NewSolomachine.
const DefaultDiversifier = "solo-machine"

// Solomachine is a testing helper that acts as the off-chain side of a solo
// machine client. Protocol objects live in a migrated test database and every
// proof is produced by Signer, so any backend can be driven through a
// handshake without a counterparty chain.
type Solomachine struct {
	t   testing.TB
	ctx context.Context

	DB     *gorm.DB
	Keeper store.Keeper
	Signer signer.Signer

	Sequence    uint64
	Time        uint64
	Diversifier string
}

// NewSolomachine returns a solo machine signing with s, starting at sequence 1.
func NewSolomachine(tb testing.TB, s signer.Signer) *Solomachine {
	tb.Helper()

	return &Solomachine{
		t:           tb,
		ctx:         context.Background(),
		DB:          NewTestDB(tb),
		Keeper:      store.NewKeeper(log.NewNopLogger()),
		Signer:      s,
		Sequence:    1,
		Time:        10,
		Diversifier: DefaultDiversifier,
	}
}

// NewMnemonicSigner returns a software signer for TestMnemonic at hdPath.
func NewMnemonicSigner(tb testing.TB, hdPath string, algo signer.AddressAlgo) *mnemonic.Signer {
	tb.Helper()

	s, err := mnemonic.NewSigner(TestMnemonic, hdPath, "cosmos", algo, log.NewNopLogger())
	require.NoError(tb, err)
	return s
}

// PublicKey returns the current public key of the signer.
func (solo *Solomachine) PublicKey() signer.PublicKey {
	pk, err := solo.Signer.PublicKey(solo.ctx)
	require.NoError(solo.t, err)
	return pk
}

// ConsensusState returns the solo machine ConsensusState a counterparty
// client would track.
func (solo *Solomachine) ConsensusState() *solomachine.ConsensusState {
	publicKey, err := solo.PublicKey().ToAny()
	require.NoError(solo.t, err)

	return &solomachine.ConsensusState{
		PublicKey:   publicKey,
		Diversifier: solo.Diversifier,
		Timestamp:   solo.Time,
	}
}

// ClientState returns a new solo machine ClientState instance.
func (solo *Solomachine) ClientState() *solomachine.ClientState {
	return solomachine.NewClientState(solo.Sequence, solo.ConsensusState())
}

// GetHeight returns the height a counterparty client reports for the solo machine.
func (solo *Solomachine) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, solo.Sequence)
}

// SignBytes returns the sign bytes committing to value at path for the
// current sequence.
func (solo *Solomachine) SignBytes(path host.Path, value proto.Message) *solomachine.SignBytes {
	var data []byte
	if value != nil {
		bz, err := proto.Marshal(value)
		require.NoError(solo.t, err)
		data = bz
	}

	return &solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        []byte(path),
		Data:        data,
	}
}

// GenerateSignature signs signBytes with the signer and returns the
// marshaled signature descriptor expected by solo machine clients.
func (solo *Solomachine) GenerateSignature(signBytes []byte) []byte {
	sig, err := solo.Signer.Sign(solo.ctx, "", signer.NewSignBytesMessage(signBytes))
	require.NoError(solo.t, err)

	protoSigData := signing.SignatureDataToProto(&signing.SingleSignatureData{
		SignMode:  signing.SignMode_SIGN_MODE_DIRECT,
		Signature: sig,
	})
	bz, err := proto.Marshal(protoSigData)
	require.NoError(solo.t, err)

	return bz
}

// GenerateProof signs signBytes and marshals the signature as a proof. The
// sequence is incremented as a counterparty client would on verification.
func (solo *Solomachine) GenerateProof(signBytes *solomachine.SignBytes) []byte {
	bz, err := proto.Marshal(signBytes)
	require.NoError(solo.t, err)

	signatureDoc := &solomachine.TimestampedSignatureData{
		SignatureData: solo.GenerateSignature(bz),
		Timestamp:     solo.Time,
	}
	proof, err := proto.Marshal(signatureDoc)
	require.NoError(solo.t, err)

	solo.Sequence++

	return proof
}

// GenerateConnectionProof proves the connection end stored under connectionID.
func (solo *Solomachine) GenerateConnectionProof(connectionID host.ConnectionID) []byte {
	connection, found, err := solo.Keeper.GetConnection(solo.ctx, solo.DB, connectionID)
	require.NoError(solo.t, err)
	require.True(solo.t, found, "connection %s not stored", connectionID)

	return solo.GenerateProof(solo.SignBytes(host.ConnectionPath(connectionID), connection))
}

// GenerateChannelProof proves the channel end stored under portID and channelID.
func (solo *Solomachine) GenerateChannelProof(portID host.PortID, channelID host.ChannelID) []byte {
	channel, found, err := solo.Keeper.GetChannel(solo.ctx, solo.DB, portID, channelID)
	require.NoError(solo.t, err)
	require.True(solo.t, found, "channel %s/%s not stored", portID, channelID)

	return solo.GenerateProof(solo.SignBytes(host.ChannelPath(portID, channelID), channel))
}

// GenerateClientStateProof proves the tendermint client state stored under clientID.
func (solo *Solomachine) GenerateClientStateProof(clientID host.ClientID) []byte {
	clientState, found, err := solo.Keeper.GetTendermintClientState(solo.ctx, solo.DB, clientID)
	require.NoError(solo.t, err)
	require.True(solo.t, found, "client state %s not stored", clientID)

	return solo.GenerateProof(solo.SignBytes(host.ClientStatePath(clientID), clientState))
}

// CreateHeader rotates the solo machine to newSigner and newDiversifier. The
// header is signed by the current signer.
func (solo *Solomachine) CreateHeader(newSigner signer.Signer, newDiversifier string) *solomachine.Header {
	newPublicKey, err := newSigner.PublicKey(solo.ctx)
	require.NoError(solo.t, err)
	publicKey, err := newPublicKey.ToAny()
	require.NoError(solo.t, err)

	data := &solomachine.HeaderData{
		NewPubKey:      publicKey,
		NewDiversifier: newDiversifier,
	}
	signBytes := solo.SignBytes(host.Path(solomachine.SentinelHeaderPath), data)

	bz, err := proto.Marshal(signBytes)
	require.NoError(solo.t, err)

	header := &solomachine.Header{
		Timestamp:      solo.Time,
		Signature:      solo.GenerateSignature(bz),
		NewPublicKey:   publicKey,
		NewDiversifier: newDiversifier,
	}

	// assumes successful header update
	solo.Sequence++
	solo.Time++
	solo.Signer = newSigner
	solo.Diversifier = newDiversifier

	return header
}
