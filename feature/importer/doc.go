// Package importer resolves candidate batches against a store and creates
// whatever is missing.
//
// An import run is idempotent: records that already exist come back as
// DUPLICATE, and running the same batch twice changes nothing. Dry runs are
// pure reads that report WOULD IMPORT for anything that would be created.
// Errors are isolated per record; a batch always finishes with an outcome
// for every record it was given.
package importer
