package config

// APIConfig defines the command surface HTTP server settings.
type APIConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
	// LogBuffer bounds the in-memory system log feed. Defaults to 50.
	LogBuffer int `json:"log_buffer"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogBuffer <= 0 {
		c.LogBuffer = 50
	}
}
