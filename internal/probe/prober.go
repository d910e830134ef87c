package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/jsonx"
	"github.com/backmassage/ffcmd/internal/options"
)

// inspectOptions is the single query Inspect issues per file.
var inspectOptions = options.Sequence(
	"-v", "quiet",
	"-print_format", "json",
	"-show_format", "-show_streams",
)

// Inspect runs one ffprobe JSON query against path and returns the typed
// result. Media.Raw keeps the decoded document in ffprobe's key order.
func Inspect(ctx context.Context, executable, path string, opts ...ffmpeg.Option) (*Media, error) {
	cmd, err := New(executable, inspectOptions, ffmpeg.NewTargetMap(ffmpeg.Target{ID: path}), opts...)
	if err != nil {
		return nil, err
	}

	res, err := cmd.Execute(ctx, ffmpeg.RunOptions{Stdout: ffmpeg.Capture, Stderr: ffmpeg.Capture})
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}

	media, err := ParseJSON(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	if obj, ok := res.Data.(*jsonx.Object); ok {
		media.Raw = obj
	}
	return media, nil
}

// ParseJSON converts raw ffprobe JSON output into a Media value. Raw is left
// nil.
func ParseJSON(data []byte) (*Media, error) {
	var raw wireOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildMedia(&raw), nil
}

type wireOutput struct {
	Format  wireFormat   `json:"format"`
	Streams []wireStream `json:"streams"`
}

type wireFormat struct {
	Filename       string            `json:"filename"`
	NbStreams      int               `json:"nb_streams"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

type wireStream struct {
	Index          int               `json:"index"`
	CodecName      string            `json:"codec_name"`
	CodecType      string            `json:"codec_type"`
	Profile        string            `json:"profile"`
	PixFmt         string            `json:"pix_fmt"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	BitRate        string            `json:"bit_rate"`
	FieldOrder     string            `json:"field_order"`
	ColorTransfer  string            `json:"color_transfer"`
	ColorPrimaries string            `json:"color_primaries"`
	ColorSpace     string            `json:"color_space"`
	AvgFrameRate   string            `json:"avg_frame_rate"`
	Channels       int               `json:"channels"`
	ChannelLayout  string            `json:"channel_layout"`
	SampleRate     string            `json:"sample_rate"`
	Disposition    map[string]int    `json:"disposition"`
	Tags           map[string]string `json:"tags"`
}

func buildMedia(raw *wireOutput) *Media {
	m := &Media{Format: convertFormat(&raw.Format)}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			vs := convertVideo(s)
			if !vs.AttachedPic && m.Video == nil {
				m.Video = &vs
			}
		case "audio":
			m.Audio = append(m.Audio, convertAudio(s))
		case "subtitle":
			m.Subtitles = append(m.Subtitles, convertSubtitle(s))
		}
	}
	return m
}

func convertFormat(f *wireFormat) Format {
	return Format{
		Filename: f.Filename,
		Streams:  f.NbStreams,
		Name:     f.FormatName,
		LongName: f.FormatLongName,
		Duration: parseSeconds(f.Duration),
		Size:     parseInt64(f.Size),
		BitRate:  parseInt64(f.BitRate),
		Tags:     f.Tags,
	}
}

func convertVideo(s *wireStream) VideoStream {
	return VideoStream{
		Index:          s.Index,
		Codec:          s.CodecName,
		Profile:        s.Profile,
		PixFmt:         s.PixFmt,
		Width:          s.Width,
		Height:         s.Height,
		BitRate:        streamBitRate(s),
		FieldOrder:     s.FieldOrder,
		ColorTransfer:  s.ColorTransfer,
		ColorPrimaries: s.ColorPrimaries,
		ColorSpace:     s.ColorSpace,
		FrameRate:      s.AvgFrameRate,
		AttachedPic:    s.Disposition["attached_pic"] == 1,
	}
}

func convertAudio(s *wireStream) AudioStream {
	return AudioStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Channels:      s.Channels,
		ChannelLayout: s.ChannelLayout,
		SampleRate:    parseInt(s.SampleRate),
		BitRate:       streamBitRate(s),
		Language:      s.Tags["language"],
		Default:       s.Disposition["default"] == 1,
	}
}

var bitmapSubCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"dvb_subtitle":      true,
	"xsub":              true,
}

func convertSubtitle(s *wireStream) SubtitleStream {
	return SubtitleStream{
		Index:    s.Index,
		Codec:    s.CodecName,
		Language: s.Tags["language"],
		Bitmap:   bitmapSubCodecs[s.CodecName],
	}
}

// streamBitRate prefers the bit_rate field and falls back to the Matroska
// BPS statistics tag.
func streamBitRate(s *wireStream) int64 {
	if n := parseInt64(s.BitRate); n > 0 {
		return n
	}
	return parseInt64(s.Tags["BPS"])
}

// ffprobe reports numbers as strings; unparsable values read as zero.

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return time.Duration(math.Round(f * float64(time.Second)))
}
