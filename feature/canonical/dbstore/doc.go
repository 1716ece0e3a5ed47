// Package dbstore implements canonical.Store on PostgreSQL via gorm.
//
// Name comparisons use LOWER() so resolution is case-insensitive without a
// functional index dependency, and every lookup orders by id ascending so
// ties resolve to the oldest record.
package dbstore
