package config

const (
	defaultConfigPath       = "~/.config/albumpress/config.toml"
	defaultStateDir         = "~/.local/share/albumpress"
	defaultLogDir           = "~/.local/share/albumpress/logs"
	defaultFFmpegBinary     = "ffmpeg"
	defaultExifToolBinary   = "exiftool"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultThreads          = 1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpeg:   defaultFFmpegBinary,
			ExifTool: defaultExifToolBinary,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		History: History{
			Enabled: true,
		},
		Run: RunDefaults{
			Threads: defaultThreads,
		},
	}
}
