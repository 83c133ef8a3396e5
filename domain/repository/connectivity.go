package repository

// IConnectivity reports the last known network reachability. The catalog
// client consults it to fail fast instead of issuing calls that cannot
// succeed while offline.
type IConnectivity interface {
	Online() bool
	// Subscribe registers a listener for state changes and returns a cancel
	// function that unregisters it.
	Subscribe(fn func(online bool)) (cancel func())
}
