package signer

import (
	errorsmod "cosmossdk.io/errors"
)

// MessageType identifies what kind of payload a signing request carries. It
// is informational: signers treat every payload as opaque bytes.
type MessageType string

const (
	// SignBytes is an encoded solo machine SignBytes.
	SignBytes MessageType = "sign-bytes"
	// SignDoc is an encoded transaction SignDoc.
	SignDoc MessageType = "sign-doc"
)

func (t MessageType) String() string { return string(t) }

// ParseMessageType parses the textual form of a message type.
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case SignBytes, SignDoc:
		return MessageType(s), nil
	default:
		return "", errorsmod.Wrapf(ErrInvalidMessageType, "expected %s or %s, got %q", SignBytes, SignDoc, s)
	}
}

// Message is a typed payload handed to a Signer.
type Message struct {
	Type  MessageType
	Bytes []byte
}

// NewSignBytesMessage wraps encoded solo machine sign bytes.
func NewSignBytesMessage(bz []byte) Message {
	return Message{Type: SignBytes, Bytes: bz}
}

// NewSignDocMessage wraps an encoded transaction sign doc.
func NewSignDocMessage(bz []byte) Message {
	return Message{Type: SignDoc, Bytes: bz}
}

// ValidateBasic checks the message type and that there is something to sign.
func (m Message) ValidateBasic() error {
	if _, err := ParseMessageType(string(m.Type)); err != nil {
		return err
	}
	if len(m.Bytes) == 0 {
		return errorsmod.Wrapf(ErrEmptyMessage, "%s message", m.Type)
	}
	return nil
}
