package config

const (
	defaultDataDir             = "~/.local/share/cinebox"
	defaultLogDir              = "~/.local/share/cinebox/logs"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultRequestTimeout      = 10
	defaultRetryAttempts       = 3
	defaultProbeTimeoutSeconds = 30
	defaultFFprobeBinary       = "ffprobe"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".avi"}
}

// Default returns the baseline configuration before any file values apply.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scan: Scan{
			VideoExtensions:     defaultVideoExtensions(),
			FFprobeBinary:       defaultFFprobeBinary,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		TMDB: TMDB{
			BaseURL:               defaultTMDBBaseURL,
			Language:              defaultTMDBLanguage,
			RequestTimeoutSeconds: defaultRequestTimeout,
			RetryAttempts:         defaultRetryAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
