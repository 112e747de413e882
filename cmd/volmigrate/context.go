package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"volmigrate/internal/cloudstack"
	"volmigrate/internal/config"
	"volmigrate/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) client() (*cloudstack.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cloudstack.New(cloudstack.Config{
		APIURL:             cfg.CloudStack.APIURL,
		APIKey:             cfg.CloudStack.APIKey,
		SecretKey:          cfg.CloudStack.SecretKey,
		Timeout:            time.Duration(cfg.CloudStack.TimeoutSeconds) * time.Second,
		InsecureSkipVerify: !cfg.CloudStack.VerifyTLS,
	})
}
