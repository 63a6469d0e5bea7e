package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Psychedelic/xtc-audit/internal/services/replay"
)

const (
	defaultGatewayURL     = "http://localhost:8453"
	defaultRequestTimeout = 30 * time.Second
	defaultBackupDir      = "backup"
	defaultSnapshotDir    = "snapshot"
	defaultAuditLogDir    = "auditlog"
	defaultWhalesTop      = 20
)

// Config is the resolved runtime configuration.
type Config struct {
	GatewayURL     string
	RequestTimeout time.Duration
	BackupDir      string
	SnapshotDir    string
	AuditLogDir    string
	DebitPolicy    replay.DebitPolicy
	WhalesTop      int
}

type configTmp struct {
	GatewayURL     string `yaml:"gateway_url"`
	RequestTimeout string `yaml:"request_timeout"`
	BackupDir      string `yaml:"backup_dir"`
	SnapshotDir    string `yaml:"snapshot_dir"`
	AuditLogDir    string `yaml:"auditlog_dir"`
	DebitPolicy    string `yaml:"debit_policy"`
	WhalesTop      int    `yaml:"whales_top"`
}

// Load reads the YAML config at path, or returns pure defaults when path is
// empty.
func Load(path string) (Config, error) {
	conf := Config{
		GatewayURL:     defaultGatewayURL,
		RequestTimeout: defaultRequestTimeout,
		BackupDir:      defaultBackupDir,
		SnapshotDir:    defaultSnapshotDir,
		AuditLogDir:    defaultAuditLogDir,
		DebitPolicy:    replay.FeeInclusive,
		WhalesTop:      defaultWhalesTop,
	}
	if path == "" {
		return conf, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var tmp configTmp
	if err := yaml.Unmarshal(payload, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	if tmp.GatewayURL != "" {
		conf.GatewayURL = tmp.GatewayURL
	}
	if tmp.RequestTimeout != "" {
		conf.RequestTimeout, err = time.ParseDuration(tmp.RequestTimeout)
		if err != nil {
			return Config{}, errors.Wrap(err, "parse request_timeout")
		}
	}
	if tmp.BackupDir != "" {
		conf.BackupDir = tmp.BackupDir
	}
	if tmp.SnapshotDir != "" {
		conf.SnapshotDir = tmp.SnapshotDir
	}
	if tmp.AuditLogDir != "" {
		conf.AuditLogDir = tmp.AuditLogDir
	}
	if tmp.WhalesTop > 0 {
		conf.WhalesTop = tmp.WhalesTop
	}

	conf.DebitPolicy, err = replay.ParseDebitPolicy(tmp.DebitPolicy)
	if err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	return conf, nil
}
