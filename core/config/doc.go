// Package config provides configuration management for the aggregation core.
//
// It utilizes Viper for loading configuration from environment variables and
// a local .env file, with defaults declared on the owning packages' config
// structs via `default` tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key, environment name)
//   - Database: Postgres connection details
//   - Log: Logging level and format
//   - Archive: raw capture object storage settings
//   - Metrics: Prometheus listener address
//   - Notify: AMQP broker settings
//
// Scrape sources, the region offset table, and sync targets live in a
// separate YAML file (SourcesFile) because they are data, not deployment
// settings; per-target credentials are read from the environment variables
// the target entries name.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
