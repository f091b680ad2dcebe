package ffmpeg

import "time"

// MediaInfo contains metadata about a media file
type MediaInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	VideoCodec string
	HasAudio   bool
	AudioCodec string
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame int
	FPS   float64
	Time  string
	Speed string
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
type ProgressFunc func(*Progress)

// Default encoding settings. A constant frame rate and fixed audio
// layout are required so the concat demuxer can join clips without
// re-encoding.
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultFPS        = 24
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultAudioRate  = 44100
	DefaultChannels   = 2
	DefaultBitrate    = "192k"
)

// SlideClipOptions configures rendering of one still-image narration clip.
// Total clip duration is PreRoll + AudioDuration + TailPad, exactly.
type SlideClipOptions struct {
	Section       string  // identity used in errors and logs (intro, topic_1, outro)
	Image         string  // still image shown for the whole clip
	Audio         string  // narration track, starts at offset PreRoll
	Output        string
	PreRoll       float64 // seconds of leading silence
	Fade          float64 // symmetric fade in/out, seconds
	TailPad       float64 // seconds of trailing silence
	AudioDuration float64 // probed narration length, seconds
	FPS           int
	Width         int
	Height        int
	CRF           int
	Preset        string
	ProgressFunc  ProgressFunc
}

// ConcatOptions defines concatenation parameters
type ConcatOptions struct {
	Inputs       []string
	Output       string
	ReEncode     bool
	VideoCodec   string
	AudioCodec   string
	CRF          int
	ProgressFunc ProgressFunc
}

// AudioFormat defines audio extraction format options
type AudioFormat struct {
	Codec      string
	SampleRate int
	Channels   int
	Bitrate    string
}

// DefaultExtractFormat is the format used for the standalone final
// audio artifact, matching the track inside the concatenated video.
func DefaultExtractFormat() AudioFormat {
	return AudioFormat{
		Codec:      DefaultAudioCodec,
		SampleRate: DefaultAudioRate,
		Channels:   DefaultChannels,
		Bitrate:    DefaultBitrate,
	}
}
