package host

import "fmt"

const (
	KeyChannelEndPrefix = "channelEnds"
	KeyChannelPrefix    = "channels"
)

// ICS04
// The following paths are the keys to the store as defined in https://github.com/cosmos/ibc/tree/master/spec/core/ics-004-channel-and-packet-semantics#store-paths

// ChannelPath defines the path under which channels are stored
func ChannelPath(portID PortID, channelID ChannelID) Path {
	return Path(fmt.Sprintf("%s/%s", KeyChannelEndPrefix, channelPath(portID, channelID)))
}

func channelPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf("%s/%s/%s/%s", KeyPortPrefix, portID, KeyChannelPrefix, channelID)
}
