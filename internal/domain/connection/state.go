package connection

// ConnectionState is the lifecycle state of one (seller, provider kind)
// connection. Connecting and Disconnecting are in-flight only and never
// observed at rest: the stored truth is the credential row, and the state
// is derived from it.
type ConnectionState string

const (
	// StateDisconnected means no credential is stored
	StateDisconnected ConnectionState = "disconnected"
	// StateConnecting means a connect request is in flight
	StateConnecting ConnectionState = "connecting"
	// StatePendingActivation means the credential is stored but the provider
	// requires an out-of-band handshake before two-way messaging works
	StatePendingActivation ConnectionState = "pending_activation"
	// StateConnected means the credential is stored and active
	StateConnected ConnectionState = "connected"
	// StateDisconnecting means a disconnect request is in flight
	StateDisconnecting ConnectionState = "disconnecting"
)

// String returns the string representation of ConnectionState
func (s ConnectionState) String() string {
	return string(s)
}

// StateOf derives the at-rest connection state from a credential.
// A nil credential means disconnected.
func StateOf(cred *ProviderCredential) ConnectionState {
	if cred == nil {
		return StateDisconnected
	}
	if cred.Activation == ActivationPending {
		return StatePendingActivation
	}
	return StateConnected
}
