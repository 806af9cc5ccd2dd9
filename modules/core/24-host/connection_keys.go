package host

import "fmt"

const KeyConnectionPrefix = "connections"

// ICS03
// The following paths are the keys to the store as defined in https://github.com/cosmos/ibc/blob/master/spec/core/ics-003-connection-semantics#store-paths

// ConnectionPath defines the path under which connection ends are stored
func ConnectionPath(connectionID ConnectionID) Path {
	return Path(fmt.Sprintf("%s/%s", KeyConnectionPrefix, connectionID))
}
