// Package envclient is the HTTP client for a remote environment's
// replication API. It authenticates with the X-API-Key header and speaks
// the syncapi request and response shapes.
package envclient
