// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/parcelflow/parcelflow/internal/mail"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// DefaultDBPath returns the database location used when none is configured.
func DefaultDBPath() string {
	return ExpandPath("~/.local/share/parcelflow/parcelflow.db")
}

// LoadMailConfig assembles the IMAP fetcher options from Viper, following
// the config-file / PARCELFLOW_ env precedence established at startup.
func LoadMailConfig() mail.FetcherOptions {
	opts := mail.FetcherOptions{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		Folder:   viper.GetString("mail.folder"),
	}
	if timeout := viper.GetDuration("mail.dial_timeout"); timeout > 0 {
		opts.DialTimeout = timeout
	}
	return opts
}

// Account returns the identifier under which state is persisted; it
// defaults to the mail username.
func Account() string {
	if account := viper.GetString("account"); account != "" {
		return account
	}
	return viper.GetString("mail.username")
}
