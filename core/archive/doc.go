// Package archive persists raw provider payloads to object storage.
//
// Every event fetched from an external source can optionally be written
// to a bucket under raw/<source>/<date>/<event-id>.json before any
// parsing happens. The archive exists for debugging broken scrapes and
// for replaying a day of captures against new parser versions; the
// import pipeline never reads from it.
//
// # Components
//
//   - Client: a thin interface over the Minio client, mockable in tests.
//   - Archive: key layout and bucket management on top of a Client.
package archive
