// Package connection contains the provider connection domain: the
// ProviderCredential aggregate, the derived connection state machine, and
// the ports implemented by provider adapters in the infrastructure layer.
//
// A seller holds at most one credential per provider kind (messaging or
// catalog). Connection state is never stored separately; it is a pure
// function of credential presence and the activation flag, so the store can
// never disagree with itself about whether a provider is connected.
package connection
