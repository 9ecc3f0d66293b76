package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// kvsParams holds what is needed to pull configuration from a key value
// store: which store, where it is and which config entry to read
type kvsParams struct {
	// provider is the key value store kind, consul or etcd
	provider string
	host     string
	port     int
	// path is the config entry path inside the store
	path string
	// format is the config format at that path,
	// any format viper can read: json, toml, yaml, properties or hcl
	format string
}

// parseKVSConnectionString parses a provider://host(:port)/path.format
// string into kvsParams
func parseKVSConnectionString(s string) (*kvsParams, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse string %s into components", s)
	}
	if u.Scheme == "" || u.Host == "" || u.Path == "" {
		return nil, errors.Errorf("can't parse string %s into components", s)
	}

	if u.Scheme != "etcd" && u.Scheme != "consul" {
		return nil, errors.Errorf("%s is not a correct key value store provider", u.Scheme)
	}

	if u.Port() == "" {
		switch u.Scheme {
		case "etcd":
			u.Host += ":2379"
		case "consul":
			u.Host += ":8500"
		}
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return nil, errors.Errorf("%s is not a correct key value store port", u.Port())
	}

	pathParts := strings.Split(u.Path, ".")
	if len(pathParts) < 2 {
		return nil, errors.New("key value store config format is not provided")
	}
	path := strings.Join(pathParts[:len(pathParts)-1], ".")

	format := pathParts[len(pathParts)-1]
	switch format {
	case "json", "toml", "yaml", "yml", "properties", "props", "prop", "hcl":
	default:
		return nil, errors.Errorf("%s is not a correct config format", format)
	}

	return &kvsParams{
		provider: u.Scheme,
		host:     u.Hostname(),
		port:     port,
		path:     path,
		format:   format,
	}, nil
}

// endpoint formats the store address the way viper's remote provider
// wants it
func (p *kvsParams) endpoint() string {
	s := fmt.Sprintf("%s:%d", p.host, p.port)
	if p.provider == "etcd" {
		s = "http://" + s
	}
	return s
}
