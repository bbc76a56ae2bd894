package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	App struct {
		Version         string `json:"version"`
		TokenFile       string `json:"token_file"`
		TokenPassphrase string `json:"token_passphrase"`
	} `json:"app,omitempty"`

	Provider struct {
		ClientID       string   `json:"client_id"`
		ClientSecret   string   `json:"client_secret"`
		AuthURL        string   `json:"auth_url"`
		TokenURL       string   `json:"token_url"`
		DeviceAuthURL  string   `json:"device_auth_url"`
		StoreAPIURL    string   `json:"store_api_url"`
		StoreUploadURL string   `json:"store_upload_url"`
		Scope          string   `json:"scope"`
		RedirectURL    string   `json:"redirect_url"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthWindow     Duration `json:"auth_window"`
	} `json:"provider,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`

		Snapshots struct {
			Dir string `json:"dir"`
		} `json:"snapshots,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		Interval Duration `json:"interval"`
		LeaseTTL Duration `json:"lease_ttl"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:         jsonCfg.App.Version,
			TokenFile:       jsonCfg.App.TokenFile,
			TokenPassphrase: jsonCfg.App.TokenPassphrase,
		},
		Provider: Provider{
			ClientID:       jsonCfg.Provider.ClientID,
			ClientSecret:   jsonCfg.Provider.ClientSecret,
			AuthURL:        jsonCfg.Provider.AuthURL,
			TokenURL:       jsonCfg.Provider.TokenURL,
			DeviceAuthURL:  jsonCfg.Provider.DeviceAuthURL,
			StoreAPIURL:    jsonCfg.Provider.StoreAPIURL,
			StoreUploadURL: jsonCfg.Provider.StoreUploadURL,
			Scope:          jsonCfg.Provider.Scope,
			RedirectURL:    jsonCfg.Provider.RedirectURL,
			RequestTimeout: time.Duration(jsonCfg.Provider.RequestTimeout),
			AuthWindow:     time.Duration(jsonCfg.Provider.AuthWindow),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Snapshots: Snapshots{
				Dir: jsonCfg.Storage.Snapshots.Dir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Sync: Sync{
			Interval: time.Duration(jsonCfg.Sync.Interval),
			LeaseTTL: time.Duration(jsonCfg.Sync.LeaseTTL),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
