// Package state owns per-user conversation state for multi-step flows.
// It provides the keyed store with lazy inactivity expiry and the per-user
// locks that serialize dispatches for the same user.
package state
