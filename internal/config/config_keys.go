// config_keys.go provides key-value access to configuration settings for the
// CLI and MCP, where config is addressed by dotted keys such as
// "server.addr". Getters return effective values (defaults applied).

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"author.name",
		"server.addr", "server.max_upload_mb", "server.cors_origins",
		"client.server",
		"notify.redis_url", "notify.channel",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the effective value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "author.name":
		return c.Author.Name, nil
	case "server.addr":
		return c.Addr(), nil
	case "server.max_upload_mb":
		return strconv.FormatInt(c.MaxUploadBytes()>>20, 10), nil
	case "server.cors_origins":
		return strings.Join(c.CORSOrigins(), ","), nil
	case "client.server":
		return c.ServerURL(), nil
	case "notify.redis_url":
		return c.RedisURL(), nil
	case "notify.channel":
		return c.Channel(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key. If the result fails
// validation the config is left unchanged.
func (c *Config) Set(key, value string) error {
	prev := *c
	if err := c.set(key, value); err != nil {
		*c = prev
		return err
	}
	if err := c.Validate(); err != nil {
		*c = prev
		return err
	}
	return nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "author.name":
		c.Author.Name = value
	case "server.addr":
		c.Server.Addr = &value
	case "server.max_upload_mb":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: server.max_upload_mb must be an integer", ErrInvalidValue)
		}
		c.Server.MaxUploadMB = &n
	case "server.cors_origins":
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	case "client.server":
		c.Client.Server = &value
	case "notify.redis_url":
		c.Notify.RedisURL = value
	case "notify.channel":
		if value == "" {
			return fmt.Errorf("%w: notify.channel must not be empty", ErrInvalidValue)
		}
		c.Notify.Channel = &value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all effective configuration values as a map.
func (c *Config) All() map[string]string {
	m := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		m[k], _ = c.Get(k)
	}
	return m
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case "author.name":
		return c.Author.Name != ""
	case "server.addr":
		return c.Server.Addr != nil
	case "server.max_upload_mb":
		return c.Server.MaxUploadMB != nil
	case "server.cors_origins":
		return len(c.Server.CORSOrigins) > 0
	case "client.server":
		return c.Client.Server != nil
	case "notify.redis_url":
		return c.Notify.RedisURL != ""
	case "notify.channel":
		return c.Notify.Channel != nil
	default:
		return false
	}
}
