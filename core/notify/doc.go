// Package notify publishes import lifecycle events over AMQP.
//
// After a live (non dry-run) import completes, the pipeline publishes a
// summary message so downstream consumers (moderation tooling, alerting)
// can react without polling. The publisher is optional; when no broker
// URL is configured the pipeline simply skips publishing.
//
// Routing keys follow "import.<source>" for scrape runs and
// "sync.<target>" for replication runs.
package notify
