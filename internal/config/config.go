package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/robgonnella/portwatch/internal/exception"
	"github.com/robgonnella/portwatch/internal/ports"
	"github.com/robgonnella/portwatch/internal/util"
	"github.com/spf13/viper"
)

// Report sink kinds
const (
	SinkHTTP   = "http"
	SinkPubSub = "pubsub"
)

// environment keys recognized by Load
const (
	KeyReceiverURL    = "receiver_url"
	KeyScanInterval   = "scan_interval"
	KeyHostIdentifier = "host_identifier"
	KeyTCPPorts       = "tcp_ports_to_scan"
	KeyUDPPorts       = "udp_ports_to_scan"
	KeyScanTimeout    = "scan_timeout"
	KeyScanWorkers    = "scan_workers"
	KeyScanRateLimit  = "scan_rate_limit"
	KeyReportSink     = "report_sink"
	KeyReportTimeout  = "report_timeout"
	KeyPubSubProject  = "pubsub_project_id"
	KeyPubSubTopic    = "pubsub_topic_id"
	KeyPubSubSub      = "pubsub_subscription_id"
	KeyDBPath         = "db_path"
	KeyDatabaseURL    = "database_url"
	KeyReceiverPort   = "receiver_port"
	KeyQueryLimit     = "query_limit"
	KeyLogFile        = "log_file"
)

// PubSub represents the optional Pub/Sub transport configuration
type PubSub struct {
	ProjectID      string
	TopicID        string
	SubscriptionID string
}

// Config represents our immutable runtime configuration. It is built once
// at startup and passed by value to every service.
type Config struct {
	ReceiverURL    string
	ScanInterval   time.Duration
	HostIdentifier string
	TCPPortSpec    string
	UDPPortSpec    string
	TCPPorts       []int
	UDPPorts       []int
	ScanTimeout    time.Duration
	Workers        int
	RateLimit      float64
	ReportSink     string
	ReportTimeout  time.Duration
	PubSub         PubSub
	DBPath         string
	DatabaseURL    string
	ReceiverPort   int
	QueryLimit     int
	LogFile        string
}

// SetDefaults registers default values for every recognized key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyReceiverURL, "http://localhost:5000/receive")
	v.SetDefault(KeyScanInterval, 300)
	v.SetDefault(KeyHostIdentifier, "")
	v.SetDefault(KeyTCPPorts, "1-1024")
	v.SetDefault(KeyUDPPorts, "")
	v.SetDefault(KeyScanTimeout, 0.5)
	v.SetDefault(KeyScanWorkers, 100)
	v.SetDefault(KeyScanRateLimit, 0)
	v.SetDefault(KeyReportSink, SinkHTTP)
	v.SetDefault(KeyReportTimeout, 10)
	v.SetDefault(KeyPubSubProject, "")
	v.SetDefault(KeyPubSubTopic, "")
	v.SetDefault(KeyPubSubSub, "")
	v.SetDefault(KeyDBPath, "port_scans.db")
	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyReceiverPort, 5000)
	v.SetDefault(KeyQueryLimit, 100)
	v.SetDefault(KeyLogFile, "")
}

// NewEnv returns a viper instance bound to the process environment with
// all defaults registered
func NewEnv() *viper.Viper {
	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load builds the configuration from viper, letting any non-zero field in
// overrides take precedence, then validates it and resolves port sets.
// A malformed port specification is returned as a *ports.FormatError.
func Load(v *viper.Viper, overrides Config) (*Config, error) {
	conf := Config{
		ReceiverURL:    v.GetString(KeyReceiverURL),
		ScanInterval:   seconds(v.GetFloat64(KeyScanInterval)),
		HostIdentifier: v.GetString(KeyHostIdentifier),
		TCPPortSpec:    v.GetString(KeyTCPPorts),
		UDPPortSpec:    v.GetString(KeyUDPPorts),
		ScanTimeout:    seconds(v.GetFloat64(KeyScanTimeout)),
		Workers:        v.GetInt(KeyScanWorkers),
		RateLimit:      v.GetFloat64(KeyScanRateLimit),
		ReportSink:     strings.ToLower(v.GetString(KeyReportSink)),
		ReportTimeout:  seconds(v.GetFloat64(KeyReportTimeout)),
		PubSub: PubSub{
			ProjectID:      v.GetString(KeyPubSubProject),
			TopicID:        v.GetString(KeyPubSubTopic),
			SubscriptionID: v.GetString(KeyPubSubSub),
		},
		DBPath:       v.GetString(KeyDBPath),
		DatabaseURL:  v.GetString(KeyDatabaseURL),
		ReceiverPort: v.GetInt(KeyReceiverPort),
		QueryLimit:   v.GetInt(KeyQueryLimit),
		LogFile:      v.GetString(KeyLogFile),
	}

	if err := mergo.Merge(&conf, overrides, mergo.WithOverride); err != nil {
		return nil, err
	}

	if conf.HostIdentifier == "" {
		conf.HostIdentifier = util.Hostname()
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	tcpPorts, err := ports.Resolve(conf.TCPPortSpec)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyTCPPorts, err)
	}

	udpPorts, err := ports.Resolve(conf.UDPPortSpec)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyUDPPorts, err)
	}

	conf.TCPPorts = tcpPorts
	conf.UDPPorts = udpPorts

	return &conf, nil
}

// UsePostgres reports whether the scan store should use postgres
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func (c Config) validate() error {
	switch {
	case c.ScanInterval <= 0:
		return invalid(KeyScanInterval, "must be greater than zero")
	case c.ScanTimeout <= 0:
		return invalid(KeyScanTimeout, "must be greater than zero")
	case c.Workers < 1:
		return invalid(KeyScanWorkers, "must be at least 1")
	case c.RateLimit < 0:
		return invalid(KeyScanRateLimit, "cannot be negative")
	case c.ReportTimeout <= 0:
		return invalid(KeyReportTimeout, "must be greater than zero")
	case c.ReceiverPort < 1 || c.ReceiverPort > ports.MaxPort:
		return invalid(KeyReceiverPort, "must be a valid port")
	case c.QueryLimit < 1:
		return invalid(KeyQueryLimit, "must be at least 1")
	}

	switch c.ReportSink {
	case SinkHTTP:
		if c.ReceiverURL == "" {
			return invalid(KeyReceiverURL, "cannot be empty")
		}
	case SinkPubSub:
		if c.PubSub.ProjectID == "" || c.PubSub.TopicID == "" {
			return invalid(KeyReportSink, "pubsub requires project and topic ids")
		}
	default:
		return invalid(KeyReportSink, fmt.Sprintf("unknown sink %q", c.ReportSink))
	}

	return nil
}

func invalid(key, reason string) error {
	return fmt.Errorf("%w: %s %s", exception.ErrInvalidConfig, key, reason)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
