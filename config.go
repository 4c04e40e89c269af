package oauthconnect

import (
	"time"

	"github.com/dpup/oauthconnect/internal/config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Filename of the standard configuration file.
const ConfigFile = "oauthconnect.yaml"

// Config is a global koanf instance used to access application level
// configuration options.
//
// Config is loaded in the following order (later sources override earlier):
//  1. Built-in defaults (in init())
//  2. Auto-discovered oauthconnect.yaml (in init())
//  3. Environment variables with OC__ prefix (in init())
//  4. Additional sources loaded via LoadConfigFile() or LoadConfigDefaults()
//
// Environment variable transformation:
//   - OC__AUTH__SIGNING_KEY → auth.signingKey
//   - OC__CONNECT__REDIRECT_URL → connect.redirectUrl
var Config = koanf.New(".")

func init() {
	loadDefaults()

	// Look for an oauthconnect.yaml file in the current directory or any
	// parent.
	if cfg := config.SearchForConfig(ConfigFile, "."); cfg != "" {
		if err := Config.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			panic("error loading config: " + err.Error())
		}
	}

	// Load environment variables with the prefix OC__.
	if err := Config.Load(env.Provider("OC__", ".", config.TransformEnv), nil); err != nil {
		panic("error loading env config: " + err.Error())
	}
}

func loadDefaults() {
	LoadConfigDefaults(map[string]interface{}{
		// User-facing name of the site, used in session token claims.
		"name": "OAuth Connect",

		// External address of the host site, used when constructing the
		// OAuth redirect URL handed to providers.
		"address": "http://localhost:8000",

		// Session token signing configuration.
		"auth.issuer":     "oauthconnect",
		"auth.expiration": "720h",
	})
}

// LoadConfigFile loads additional configuration from a YAML file into the
// global Config instance. Call this before building plugins to load
// application-specific configuration.
func LoadConfigFile(path string) {
	if err := Config.Load(file.Provider(path), yaml.Parser()); err != nil {
		panic("error loading config file '" + path + "': " + err.Error())
	}
}

// LoadConfigDefaults loads default configuration values into the global
// Config instance. Values already present are not overridden by later calls
// to this function when loaded through init ordering; koanf merge semantics
// apply (later loads win), so call this before LoadConfigFile.
func LoadConfigDefaults(defaults map[string]interface{}) {
	if err := Config.Load(confmap.Provider(defaults, "."), nil); err != nil {
		panic("error loading config defaults: " + err.Error())
	}
}

// ConfigString returns the string value for the given key.
func ConfigString(key string) string {
	return Config.String(key)
}

// ConfigInt returns the int value for the given key.
func ConfigInt(key string) int {
	return Config.Int(key)
}

// ConfigBool returns the bool value for the given key.
func ConfigBool(key string) bool {
	return Config.Bool(key)
}

// ConfigDuration returns the duration value for the given key. Duration
// strings like "5m", "1h", "30s" are parsed automatically.
func ConfigDuration(key string) time.Duration {
	return Config.Duration(key)
}

// ConfigStrings returns the string slice value for the given key.
func ConfigStrings(key string) []string {
	return Config.Strings(key)
}

// ConfigExists checks if the given key exists in the configuration.
func ConfigExists(key string) bool {
	return Config.Exists(key)
}
