package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Stream   MStreamConfig   `yaml:"stream"`
	Detector MDetectorConfig `yaml:"detector"`
	Storage  MStorageConfig  `yaml:"storage"`
	Notify   MNotifyConfig   `yaml:"notify"`
	Analysis MAnalysisConfig `yaml:"analysis"`
}

type MStreamConfig struct {
	Tickers             []string `yaml:"tickers"`
	TickIntervalSeconds float64  `yaml:"tick_interval_seconds"`
	Fluctuation         float64  `yaml:"fluctuation"`
	PriceFloor          float64  `yaml:"price_floor"`
	InitialPriceMin     float64  `yaml:"initial_price_min"`
	InitialPriceMax     float64  `yaml:"initial_price_max"`
	Seed                int64    `yaml:"seed"` // 0 = seed from clock
}

type MDetectorConfig struct {
	WindowSeconds    int     `yaml:"window_seconds"`
	ThresholdPercent float64 `yaml:"threshold_percent"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNotifyConfig struct {
	QueueSize  int    `yaml:"queue_size"`
	WebhookURL string `yaml:"webhook_url"` // optional, delivery is log-only when empty
}

type MAnalysisConfig struct {
	RootDir  string `yaml:"root_dir"`
	Calendar string `yaml:"calendar"` // MIC code, e.g. "xnys"
}
