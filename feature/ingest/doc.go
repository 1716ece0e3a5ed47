// Package ingest runs the scrape pipeline end to end: fetch each configured
// source, parse its events, canonicalize them, and import the resulting
// batch. Sources run concurrently and fail independently.
package ingest
