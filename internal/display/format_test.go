package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		bytes int64
		want  string
	}{
		"zero":                 {0, "0 B"},
		"small bytes":          {512, "512 B"},
		"exactly 1 KiB":        {1024, "1.0 KiB"},
		"1.5 KiB":              {1536, "1.5 KiB"},
		"1 MiB":                {1024 * 1024, "1.0 MiB"},
		"1 GiB":                {1024 * 1024 * 1024, "1.0 GiB"},
		"typical file 700 MiB": {734003200, "700.0 MiB"},
		"4.7 GiB":              {5046586572, "4.7 GiB"},
		"exbibytes":            {1 << 62, "4.0 EiB"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, FormatBytes(test.bytes))
		})
	}
}

func TestFormatBitRate(t *testing.T) {
	tests := map[string]struct {
		bps  int64
		want string
	}{
		"unknown":       {0, "unknown"},
		"negative":      {-1, "unknown"},
		"audio":         {192000, "192 kbps"},
		"exactly 1Mbps": {1_000_000, "1.0 Mbps"},
		"typical video": {5_000_000, "5.0 Mbps"},
		"high bitrate":  {25_400_000, "25.4 Mbps"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, FormatBitRate(test.bps))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[string]struct {
		d    time.Duration
		want string
	}{
		"zero":          {0, "0:00:00.000"},
		"sub-second":    {250 * time.Millisecond, "0:00:00.250"},
		"episode":       {1437123 * time.Millisecond, "0:23:57.123"},
		"feature":       {90 * time.Minute, "1:30:00.000"},
		"rounds micros": {1500 * time.Microsecond, "0:00:00.002"},
		"negative":      {-2 * time.Second, "-0:00:02.000"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, FormatDuration(test.d))
		})
	}
}
