package host

import (
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// PathKind is the kind of protocol object stored under a Path.
type PathKind int

const (
	KindUnknown PathKind = iota
	KindClientState
	KindConsensusState
	KindConnection
	KindChannel
	KindPort
)

func (k PathKind) String() string {
	switch k {
	case KindClientState:
		return "client-state"
	case KindConsensusState:
		return "consensus-state"
	case KindConnection:
		return "connection"
	case KindChannel:
		return "channel"
	case KindPort:
		return "port"
	default:
		return "unknown"
	}
}

// Path is a canonical store key derived from a record kind and its identifiers.
// Paths are only built by the constructors in this package or by ParsePath.
type Path string

func (p Path) String() string { return string(p) }

// Kind returns the record kind encoded in the path structure.
func (p Path) Kind() PathKind {
	parsed, err := ParsePath(string(p))
	if err != nil {
		return KindUnknown
	}
	return parsed.kind
}

// Validate checks that the path is one of the recognised ICS 24 paths in its
// canonical form, so every protocol object has exactly one valid path.
func (p Path) Validate() error {
	parsed, err := ParsePath(string(p))
	if err != nil {
		return err
	}
	if canonical := parsed.Path(); canonical != p {
		return errorsmod.Wrapf(ErrInvalidPath, "%s is not canonical, expected %s", p, canonical)
	}
	return nil
}

// ParsedPath is the decomposition of a Path into its kind and identifiers.
type ParsedPath struct {
	kind         PathKind
	ClientID     ClientID
	Height       RevisionHeight
	ConnectionID ConnectionID
	PortID       PortID
	ChannelID    ChannelID
}

// Kind returns the record kind of the parsed path.
func (pp ParsedPath) Kind() PathKind { return pp.kind }

// Path rebuilds the canonical path string.
func (pp ParsedPath) Path() Path {
	switch pp.kind {
	case KindClientState:
		return ClientStatePath(pp.ClientID)
	case KindConsensusState:
		return ConsensusStatePath(pp.ClientID, pp.Height)
	case KindConnection:
		return ConnectionPath(pp.ConnectionID)
	case KindChannel:
		return ChannelPath(pp.PortID, pp.ChannelID)
	case KindPort:
		return PortPath(pp.PortID)
	default:
		return ""
	}
}

// ParsePath decomposes s into one of the recognised ICS 24 paths, validating every
// identifier it contains.
func ParsePath(s string) (ParsedPath, error) {
	if strings.TrimSpace(s) == "" {
		return ParsedPath{}, errorsmod.Wrap(ErrInvalidPath, "path cannot be blank")
	}

	segments := strings.Split(s, "/")
	switch {
	case len(segments) == 3 && segments[0] == KeyClientStorePrefix && segments[2] == KeyClientState:
		clientID, err := NewClientID(segments[1])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		return ParsedPath{kind: KindClientState, ClientID: clientID}, nil

	case len(segments) == 4 && segments[0] == KeyClientStorePrefix && segments[2] == KeyConsensusStatePrefix:
		clientID, err := NewClientID(segments[1])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		height, err := parseRevisionHeight(segments[3])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		return ParsedPath{kind: KindConsensusState, ClientID: clientID, Height: height}, nil

	case len(segments) == 2 && segments[0] == KeyConnectionPrefix:
		connectionID, err := NewConnectionID(segments[1])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		return ParsedPath{kind: KindConnection, ConnectionID: connectionID}, nil

	case len(segments) == 5 && segments[0] == KeyChannelEndPrefix && segments[1] == KeyPortPrefix && segments[3] == KeyChannelPrefix:
		portID, err := NewPortID(segments[2])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		channelID, err := NewChannelID(segments[4])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		return ParsedPath{kind: KindChannel, PortID: portID, ChannelID: channelID}, nil

	case len(segments) == 2 && segments[0] == KeyPortPrefix:
		portID, err := NewPortID(segments[1])
		if err != nil {
			return ParsedPath{}, wrapPathErr(err, s)
		}
		return ParsedPath{kind: KindPort, PortID: portID}, nil
	}

	return ParsedPath{}, errorsmod.Wrapf(ErrInvalidPath, "unrecognised path %s", s)
}

// RevisionHeight is a plain Height implementation used when heights are parsed
// back out of consensus state paths.
type RevisionHeight struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

func (h RevisionHeight) GetRevisionNumber() uint64 { return h.RevisionNumber }
func (h RevisionHeight) GetRevisionHeight() uint64 { return h.RevisionHeight }

func parseRevisionHeight(s string) (RevisionHeight, error) {
	split := strings.Split(s, "-")
	if len(split) != 2 {
		return RevisionHeight{}, errorsmod.Wrapf(ErrInvalidPath, "height %s must be in format {revision}-{height}", s)
	}

	revisionNumber, ok := parseCanonicalUint(split[0])
	if !ok {
		return RevisionHeight{}, errorsmod.Wrapf(ErrInvalidPath, "invalid revision number %s", split[0])
	}
	revisionHeight, ok := parseCanonicalUint(split[1])
	if !ok {
		return RevisionHeight{}, errorsmod.Wrapf(ErrInvalidPath, "invalid revision height %s", split[1])
	}

	return RevisionHeight{RevisionNumber: revisionNumber, RevisionHeight: revisionHeight}, nil
}

// parseCanonicalUint parses a decimal number in the form fmt prints it, so
// "01" and "00" are rejected.
func parseCanonicalUint(s string) (uint64, bool) {
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func wrapPathErr(err error, path string) error {
	return errorsmod.Wrapf(ErrInvalidPath, "%s: %s", path, err)
}
