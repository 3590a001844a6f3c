package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		HostsFile: HostsFileConfig{Path: "/app/docker-hosts"},
		Filter:    FilterConfig{Enable: false, LabelKey: "hoster.enable", LabelValue: "true"},
		Hostnames: HostnamesConfig{Policy: PolicyName},
		Logging:   LoggingConfig{Level: "INFO"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "rich policy accepted",
			mutate: func(c *Config) { c.Hostnames.Policy = PolicyRich },
		},
		{
			name:    "empty hosts file path",
			mutate:  func(c *Config) { c.HostsFile.Path = "" },
			wantErr: "hostsfile.path",
		},
		{
			name:    "unknown hostname policy",
			mutate:  func(c *Config) { c.Hostnames.Policy = "everything" },
			wantErr: "hostnames.policy",
		},
		{
			name: "filter enabled without key",
			mutate: func(c *Config) {
				c.Filter.Enable = true
				c.Filter.LabelKey = ""
			},
			wantErr: "filter.label_key",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "LOUD" },
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
