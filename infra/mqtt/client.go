// Package mqtt holds the Paho connection plumbing shared by the MQTT report
// source and the report injection command.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/communityshield/dispatch/core/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ReportTopic string `json:"report_topic"`
	QoS         byte   `json:"qos"`
	UseTLS      bool   `json:"use_tls"`
	CABundle    string `json:"ca_bundle"`
	ClientCert  string `json:"client_cert"`
	ClientKey   string `json:"client_key"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ReportTopic == "" {
		c.ReportTopic = "shield/reports"
	}
	if c.ClientID == "" {
		c.ClientID = "dispatch-engine"
	}
}

// Validate checks mandatory fields. An empty broker is allowed and means the
// MQTT source is disabled.
func (c Config) Validate() error {
	if c.UseTLS && c.CABundle == "" && (c.ClientCert == "" || c.ClientKey == "") {
		return fmt.Errorf("mqtt: use_tls requires a ca_bundle or a client certificate pair")
	}
	return nil
}

// tlsConfig builds the TLS settings from the configured file paths.
func (c Config) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c.CABundle != "" {
		pem, err := os.ReadFile(c.CABundle)
		if err != nil {
			return nil, fmt.Errorf("mqtt: read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("mqtt: no certificates in ca bundle %s", c.CABundle)
		}
		cfg.RootCAs = pool
	}
	if c.ClientCert != "" && c.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("mqtt: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// Connect dials the broker and waits for the connection to come up. The
// returned client auto-reconnects; connection loss is logged, not fatal.
func Connect(cfg Config, log logger.Logger) (paho.Client, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.tlsConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if log != nil {
		opts.OnConnectionLost = func(_ paho.Client, err error) {
			log.Errorf("mqtt connection lost: %v", err)
		}
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", cfg.Broker, token.Error())
	}
	return cli, nil
}
