// Package config manages the msgview settings file.
//
// Settings live in a YAML file in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/msgview/config.yaml or $HOME/.config/msgview/config.yaml
//   - macOS: $HOME/.config/msgview/config.yaml
//   - Windows: %LOCALAPPDATA%\msgview\config.yaml
//
// A missing file is not an error; Load returns defaults.
//
// # Precedence
//
// The endpoint address is decided in this order, highest first:
//
//  1. --api-url flag
//  2. MSGVIEW_API_URL environment variable (ApplyEnv)
//  3. api_url in the settings file
//  4. a backend found over mDNS, when discover is true
//  5. the default relative path /api
//
// Relative addresses resolve against base_url, which defaults to
// http://127.0.0.1:5000.
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	settings.ApplyEnv(os.LookupEnv)
package config
