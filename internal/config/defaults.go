package config

const (
	defaultLogDir    = "~/.local/share/reel/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
	defaultMenuLabel = "Reel Converter"
)

var defaultExtensions = []string{"avi", "mp4", "mkv"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
		Installer: Installer{
			MenuLabel:  defaultMenuLabel,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		Thumbs: Thumbs{
			Cols:      3,
			Rows:      4,
			MaxWidth:  320,
			MaxHeight: 180,
			GapPx:     5,
			MarginPx:  5,
		},
		Variants: []Variant{
			{
				Name:            "h265-8000k",
				Suffix:          "h265",
				Container:       "mkv",
				Codec:           "hevc_nvenc",
				BitrateKbps:     8000,
				MaxrateKbps:     16000,
				BufsizeKbps:     32000,
				RateControl:     "vbr",
				Preset:          "p5",
				Tune:            "hq",
				Profile:         "main",
				LookaheadFrames: 32,
				SpatialAQ:       true,
				BFrames:         3,
			},
			{
				Name:            "h264-24000k",
				Suffix:          "h264",
				Container:       "mp4",
				Codec:           "h264_nvenc",
				BitrateKbps:     24000,
				MaxrateKbps:     32000,
				BufsizeKbps:     64000,
				RateControl:     "vbr",
				Preset:          "p5",
				Tune:            "hq",
				Profile:         "high",
				LookaheadFrames: 32,
				SpatialAQ:       true,
				BFrames:         3,
			},
		},
	}
}
