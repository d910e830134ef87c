package probe

import (
	"strconv"
	"time"

	"github.com/backmassage/ffcmd/internal/jsonx"
)

// Format holds container-level metadata from ffprobe's format section.
type Format struct {
	Filename string
	Streams  int
	Name     string
	LongName string
	Duration time.Duration
	Size     int64
	BitRate  int64
	Tags     map[string]string
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index          int
	Codec          string
	Profile        string
	PixFmt         string
	Width          int
	Height         int
	BitRate        int64
	FieldOrder     string
	ColorTransfer  string
	ColorPrimaries string
	ColorSpace     string
	FrameRate      string
	AttachedPic    bool
}

type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	ChannelLayout string
	SampleRate    int
	BitRate       int64
	Language      string
	Default       bool
}

type SubtitleStream struct {
	Index    int
	Codec    string
	Language string
	Bitmap   bool
}

// Media is the parsed result of one ffprobe query. Video is the first
// video stream that is not an attached picture, or nil.
type Media struct {
	Format    Format
	Video     *VideoStream
	Audio     []AudioStream
	Subtitles []SubtitleStream

	// Raw is the decoded document in ffprobe's key order, set by Inspect.
	Raw *jsonx.Object
}

// VideoBitRate returns the primary video bitrate in bits/sec, falling back
// to the container bitrate when the stream does not report one.
func (m *Media) VideoBitRate() int64 {
	if m.Video != nil && m.Video.BitRate > 0 {
		return m.Video.BitRate
	}
	return m.Format.BitRate
}

// AudioBitRate returns the first audio stream's bitrate, or 0.
func (m *Media) AudioBitRate() int64 {
	if len(m.Audio) == 0 {
		return 0
	}
	return m.Audio[0].BitRate
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (m *Media) Resolution() string {
	if m.Video == nil || m.Video.Width <= 0 || m.Video.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(m.Video.Width) + "x" + strconv.Itoa(m.Video.Height)
}

// HasBitmapSubtitles reports whether any subtitle stream is image based.
func (m *Media) HasBitmapSubtitles() bool {
	for _, s := range m.Subtitles {
		if s.Bitmap {
			return true
		}
	}
	return false
}
