package catalog

// Config holds configuration for the catalog exporter.
type Config struct {
	// DataRoot is the per-installation directory the export tree lives under.
	DataRoot string `mapstructure:"data_root" default:"./data"`
	// ScanOnStart triggers a catalog pass when the service starts.
	ScanOnStart bool `mapstructure:"scan_on_start" default:"true"`
	// ScanSchedule is an optional cron expression re-running the scan while
	// the service is up. Empty disables scheduled scans.
	ScanSchedule string `mapstructure:"scan_schedule" default:""`
}
