package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnose(t *testing.T) {
	tests := map[string]struct {
		stderr string
		want   Diagnosis
	}{
		"empty":       {"", DiagnosisNone},
		"unrelated":   {"frame=  100 fps= 25 q=28.0", DiagnosisNone},
		"missing":     {"/tmp/nope.mp4: No such file or directory", DiagnosisMissingInput},
		"bad input":   {"in.ts: Invalid data found when processing input", DiagnosisMissingInput},
		"bad option":  {"Unrecognized option 'foo'.\nError splitting the argument list: Option not found", DiagnosisUnrecognizedOption},
		"attachment":  {"Attachment stream 3 has no filename tag", DiagnosisAttachment},
		"subtitle":    {"Subtitle codec 94213 is not supported", DiagnosisSubtitle},
		"mux queue":   {"Too many packets buffered for output stream 0:1.", DiagnosisMuxQueueOverflow},
		"timestamps":  {"Application provided invalid, non monotonically increasing dts to muxer", DiagnosisTimestamps},
		"first match": {"Attachment stream 1 has no mimetype tag\nToo many packets buffered for output stream", DiagnosisAttachment},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := Diagnose([]byte(test.stderr))
			assert.Equal(t, test.want, got)
			if got == DiagnosisNone {
				assert.Empty(t, got.Hint())
			} else {
				assert.NotEmpty(t, got.Hint())
			}
		})
	}
}

func TestRuntimeErrorDiagnosis(t *testing.T) {
	err := &RuntimeError{Stderr: []byte("Too many packets buffered for output stream 0:0.")}
	assert.Equal(t, DiagnosisMuxQueueOverflow, err.Diagnosis())
	assert.Equal(t, "mux-queue-overflow", err.Diagnosis().String())
}
