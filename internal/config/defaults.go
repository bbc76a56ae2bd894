package config

import "time"

// Google Drive endpoints are the defaults because the original deployment
// syncs against Drive; every endpoint stays overridable for other providers
// and for tests.
const (
	defaultAuthURL        = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL       = "https://oauth2.googleapis.com/token"
	defaultDeviceAuthURL  = "https://oauth2.googleapis.com/device/code"
	defaultStoreAPIURL    = "https://www.googleapis.com/drive/v3"
	defaultStoreUploadURL = "https://www.googleapis.com/upload/drive/v3"
	defaultScope          = "https://www.googleapis.com/auth/drive.file"
	defaultRedirectURL    = "http://127.0.0.1:8080/oauth/callback"

	defaultHTTPAddress    = "localhost:8080"
	defaultSnapshotDir    = "databases"
	defaultTokenFile      = "token.enc"
	defaultRequestTimeout = 15 * time.Second
	defaultAuthWindow     = 2 * time.Minute

	// DefaultSyncInterval is the heartbeat of every per-database sync loop.
	DefaultSyncInterval = 5 * time.Second
)

// defaultConfig returns the built-in fallback values merged in with the
// lowest priority.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenFile: defaultTokenFile,
		},
		Provider: Provider{
			AuthURL:        defaultAuthURL,
			TokenURL:       defaultTokenURL,
			DeviceAuthURL:  defaultDeviceAuthURL,
			StoreAPIURL:    defaultStoreAPIURL,
			StoreUploadURL: defaultStoreUploadURL,
			Scope:          defaultScope,
			RedirectURL:    defaultRedirectURL,
			RequestTimeout: defaultRequestTimeout,
			AuthWindow:     defaultAuthWindow,
		},
		Storage: Storage{
			Snapshots: Snapshots{Dir: defaultSnapshotDir},
		},
		Server: Server{
			HTTPAddress:    defaultHTTPAddress,
			RequestTimeout: 30 * time.Second,
		},
		Sync: Sync{
			Interval: DefaultSyncInterval,
			LeaseTTL: 2 * DefaultSyncInterval,
		},
	}
}
