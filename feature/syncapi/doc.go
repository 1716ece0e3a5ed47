// Package syncapi exposes the replication API other environments talk to.
//
// GET /export/{shows,artists,venues} pages stored records out as
// self-contained candidates; POST /import/{shows,artists,venues} runs an
// incoming batch through the local import pipeline and returns per-record
// outcomes. Identity resolution always happens on the receiving side.
package syncapi
