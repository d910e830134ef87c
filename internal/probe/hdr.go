package probe

// DynamicRange classifies the primary video stream's transfer function.
type DynamicRange string

const (
	SDR   DynamicRange = "sdr"
	HDR10 DynamicRange = "hdr10"
	HLG   DynamicRange = "hlg"
)

// DynamicRange reports HDR10 for PQ (smpte2084) transfer or bt2020
// primaries, HLG for arib-std-b67 transfer, and SDR otherwise.
func (m *Media) DynamicRange() DynamicRange {
	if m.Video == nil {
		return SDR
	}

	switch m.Video.ColorTransfer {
	case "smpte2084":
		return HDR10
	case "arib-std-b67":
		return HLG
	}
	if m.Video.ColorPrimaries == "bt2020" {
		return HDR10
	}
	return SDR
}
