// Package server holds configuration for the HTTP surface.
//
// Each deployment environment runs its own server instance with its own
// API key. The export and import endpoints exposed by the serve command
// are the surface that the sync orchestrator of a peer environment talks
// to, so the key here is the credential that peers must present.
package server
