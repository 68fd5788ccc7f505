package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gradecheck/internal/history"
	"gradecheck/internal/notify"
	"gradecheck/internal/scrapers/cas"
	"gradecheck/pkg/configutil"
)

const (
	defaultConfigPath   = "config.json"
	defaultSnapshotPath = "info.json"
)

// Config holds every parameter of a check. It is read from the config file
// when one exists, otherwise it is built from the command line flags.
type Config struct {
	Uid              string         `json:"uid"`
	Password         string         `json:"password"`
	Mail             string         `json:"mail"`
	MailPassword     string         `json:"mail_password"`
	SmtpServer       string         `json:"smtp_server"`
	Port             int            `json:"port"`
	TimeoutSeconds   int            `json:"timeout_seconds"`
	Snapshot         string         `json:"snapshot"`
	History          history.Config `json:"history"`
	CloudflareBypass bool           `json:"cloudflare_bypass"`
}

func (c Config) withDefaults() Config {
	if c.SmtpServer == "" {
		c.SmtpServer = notify.DefaultSmtpServer
	}
	if c.Port == 0 {
		c.Port = notify.DefaultSmtpPort
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(cas.DefaultTimeout / time.Second)
	}
	if c.Snapshot == "" {
		c.Snapshot = defaultSnapshotPath
	}
	return c
}

// timeoutSeconds converts the --timeout flag to the whole seconds the config
// file uses.
func timeoutSeconds(d time.Duration) (int, error) {
	if d < time.Second || d%time.Second != 0 {
		return 0, fmt.Errorf("timeout %s must be a whole number of seconds", d)
	}
	return int(d / time.Second), nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) SmtpConfig() notify.SmtpConfig {
	return notify.SmtpConfig{
		Server:       c.SmtpServer,
		Port:         c.Port,
		EmailAddress: c.Mail,
		Password:     c.MailPassword,
	}
}

// validate checks the parameters a check cannot run without.
func (c Config) validate() error {
	var missing []error
	if c.Uid == "" {
		missing = append(missing, errors.New("uid is required"))
	}
	if c.Password == "" {
		missing = append(missing, errors.New("password is required"))
	}
	if c.Mail == "" {
		missing = append(missing, errors.New("mail is required"))
	}
	if c.MailPassword == "" {
		missing = append(missing, errors.New("mail_password is required"))
	}
	return errors.Join(missing...)
}

// resolveConfig returns the contents of the config file at `path` if it (or
// its local override) exists, `flags` otherwise. The two are never mixed.
func resolveConfig(path string, flags Config) (Config, error) {
	file, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return flags.withDefaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return file.withDefaults(), nil
}
