package config

const (
	defaultRecordingsDir         = "~/recordings"
	defaultProgramsDir           = "~/.local/share/telerec"
	defaultChannelsFile          = "~/.config/telerec/chaines.json"
	defaultLogDir                = "~/.local/share/telerec/logs"
	defaultPollIntervalSeconds   = 30
	defaultPrincipalSubscription = "default"
	defaultCaptureBinary         = "ffmpeg"
	defaultGiveUpFloorSeconds    = 30
	defaultStabilitySeconds      = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultRetryDelays() []int {
	return []int{0, 2, 5, 10, 30, 60}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecordingsDir: defaultRecordingsDir,
			ProgramsDir:   defaultProgramsDir,
			ChannelsFile:  defaultChannelsFile,
			LogDir:        defaultLogDir,
		},
		Scheduler: Scheduler{
			PollIntervalSeconds:   defaultPollIntervalSeconds,
			PrincipalSubscription: defaultPrincipalSubscription,
		},
		Capture: Capture{
			Binary:                    defaultCaptureBinary,
			GiveUpFloorSeconds:        defaultGiveUpFloorSeconds,
			StabilityThresholdSeconds: defaultStabilitySeconds,
			RetryDelaysSeconds:        defaultRetryDelays(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
