package probe

import "strings"

// IsInterlaced reports whether the primary video stream's field_order is
// one of tt, bb, tb or bt.
func (m *Media) IsInterlaced() bool {
	if m.Video == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(m.Video.FieldOrder)) {
	case "tt", "bb", "tb", "bt":
		return true
	}
	return false
}
