package main

import (
	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds the server's configuration. Every field must be present
// in the config file; github.com/horgh/config requires it.
type Config struct {
	ListenHost string
	ListenPort string

	ServerName string
	Motd       string

	// Directory holding the <Type>.<FIELD>.dat persistence files. May not
	// exist yet; it is created on first save.
	Persistdir string

	// Admin-console attempt count at which a non-administrator's account
	// is deleted and their address banned; 0 selects defaultMaxForgiveness.
	Maxforgiveness int64

	// Read from the config file but not used: a new channel always starts
	// with no buffer size and a replay size of defaultReplaySize.
	Defaultbufferlimit int64
	Defaultreplaysize  int64
}

func loadConfig(path string) (*Config, error) {
	var c Config
	if err := config.GetConfig(path, &c); err != nil {
		return nil, errors.Wrap(err, "unable to load configuration")
	}
	return &c, nil
}
