// Package sync pushes candidate batches to remote environments.
//
// Each target is an independent environment with its own store; the remote
// side runs the same import pipeline against its own data, so identity
// resolution always happens where the records live. Targets are configured
// declaratively and credentials resolve from the environment at run time.
package sync
