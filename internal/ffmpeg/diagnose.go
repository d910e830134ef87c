package ffmpeg

import "regexp"

// Diagnosis names a well-known ffmpeg failure recognised in stderr.
type Diagnosis int

const (
	DiagnosisNone Diagnosis = iota
	DiagnosisMissingInput
	DiagnosisUnrecognizedOption
	DiagnosisAttachment
	DiagnosisSubtitle
	DiagnosisMuxQueueOverflow
	DiagnosisTimestamps
)

// Pre-compiled stderr patterns, checked in order by Diagnose; the first match wins.
var (
	reMissingInput = regexp.MustCompile(
		`(?m)No such file or directory$|Invalid data found when processing input`)

	reUnrecognizedOption = regexp.MustCompile(
		`Unrecognized option '[^']*'|Option not found|Error splitting the argument list`)

	reAttachmentIssue = regexp.MustCompile(
		`Attachment stream \d+ has no (filename|mimetype) tag`)

	reSubtitleIssue = regexp.MustCompile(
		`(?i)Subtitle codec .* is not supported|` +
			`Could not find tag for codec .* in stream .*subtitle|` +
			`Error initializing output stream .*subtitle|` +
			`Error while opening encoder for output stream .*subtitle|` +
			`Subtitle encoding currently only possible from text to text or bitmap to bitmap`)

	reMuxQueueOverflow = regexp.MustCompile(
		`Too many packets buffered for output stream`)

	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`)
)

var diagnosisPatterns = []struct {
	re *regexp.Regexp
	d  Diagnosis
}{
	{reMissingInput, DiagnosisMissingInput},
	{reUnrecognizedOption, DiagnosisUnrecognizedOption},
	{reAttachmentIssue, DiagnosisAttachment},
	{reSubtitleIssue, DiagnosisSubtitle},
	{reMuxQueueOverflow, DiagnosisMuxQueueOverflow},
	{reTimestampIssue, DiagnosisTimestamps},
}

// Diagnose classifies ffmpeg stderr output. It only labels the failure; it
// never changes or retries the command.
func Diagnose(stderr []byte) Diagnosis {
	for _, p := range diagnosisPatterns {
		if p.re.Match(stderr) {
			return p.d
		}
	}
	return DiagnosisNone
}

// Hint returns a short operator-facing suggestion, or "" for DiagnosisNone.
func (d Diagnosis) Hint() string {
	switch d {
	case DiagnosisMissingInput:
		return "an input is missing or unreadable; check the input paths"
	case DiagnosisUnrecognizedOption:
		return "an option was rejected; check option spelling and which target it precedes"
	case DiagnosisAttachment:
		return "an attachment stream lacks filename/mimetype tags; drop attachments with -map -0:t"
	case DiagnosisSubtitle:
		return "the output container cannot carry a subtitle stream; convert or drop subtitles"
	case DiagnosisMuxQueueOverflow:
		return "the muxing queue overflowed; raise -max_muxing_queue_size"
	case DiagnosisTimestamps:
		return "input timestamps are broken; try -fflags +genpts"
	default:
		return ""
	}
}

func (d Diagnosis) String() string {
	switch d {
	case DiagnosisNone:
		return "none"
	case DiagnosisMissingInput:
		return "missing-input"
	case DiagnosisUnrecognizedOption:
		return "unrecognized-option"
	case DiagnosisAttachment:
		return "attachment"
	case DiagnosisSubtitle:
		return "subtitle"
	case DiagnosisMuxQueueOverflow:
		return "mux-queue-overflow"
	case DiagnosisTimestamps:
		return "timestamps"
	default:
		return "unknown"
	}
}
