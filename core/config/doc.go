// Package config provides configuration management for the exporter service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: emulator database connection details
//   - Storage: S3/MinIO mirror credentials and bucket settings
//   - Log: Logging level and format
//   - Catalog: data root, scan schedule
//   - Acquisition: debounce window
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
