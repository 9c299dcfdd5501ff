package config

import (
	"fmt"
	"sort"
	"strconv"
)

// KeyInfo describes one configurable key for display.
type KeyInfo struct {
	Key   string
	Value string
	Env   string
}

// ValidKeys returns the settable (non-secret) key names, sorted.
func ValidKeys() []string {
	keys := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.secret {
			continue
		}
		keys = append(keys, s.key)
	}
	sort.Strings(keys)
	return keys
}

// ShowAll reports the effective value of every non-secret key. Secret
// keys are omitted so credentials never reach the terminal.
func ShowAll(cfg Config) []KeyInfo {
	infos := make([]KeyInfo, 0, len(specs))
	for _, s := range specs {
		if s.secret {
			continue
		}
		infos = append(infos, KeyInfo{
			Key:   s.key,
			Value: fmt.Sprintf("%v", s.extract(cfg)),
			Env:   s.env,
		})
	}
	return infos
}

// SetKey persists a value for key in the config file. Secret keys are
// rejected with a hint to use the environment variable instead.
func SetKey(key, value string) error {
	return setKey(newFileBackend(), key, value)
}

func setKey(b Backend, key, value string) error {
	for _, s := range specs {
		if s.key != key {
			continue
		}
		if s.secret {
			return fmt.Errorf("%s holds a credential; set it via the %s environment variable or a .env file instead", key, s.env)
		}
		switch s.typ {
		case kString:
			return b.SetString(key, value)
		case kInt:
			i, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s expects an integer, got %q", key, value)
			}
			return b.SetInt(key, i)
		}
	}
	return fmt.Errorf("unknown config key %q (valid keys: %v)", key, ValidKeys())
}
