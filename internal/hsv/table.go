package hsv

// Table maps each 8-bit input of the three HSV channels to its adjusted value.
type Table struct {
	H, S, V [256]uint8
}

// NewTable builds the channel lookup for a detect-mode adjustment:
//
//	h' = min(h + Hue, 179)
//	s' = floor(min(s * Saturation / 255, 255))
//	v' = floor(min(v * Value / 255, 255))
//
// Hue saturates at 179 instead of wrapping around the colour wheel.
func NewTable(a Adjustment) *Table {
	a = a.Clamp()
	t := &Table{}
	for i := 0; i < 256; i++ {
		t.H[i] = uint8(clamp(i+a.Hue, 0, HueMax))
		t.S[i] = uint8(clamp(i*a.Saturation/255, 0, SaturationMax))
		t.V[i] = uint8(clamp(i*a.Value/255, 0, ValueMax))
	}
	return t
}

// Pixel returns the adjusted HSV triple.
func (t *Table) Pixel(h, s, v uint8) (uint8, uint8, uint8) {
	return t.H[h], t.S[s], t.V[v]
}

// ApplyInterleaved rewrites packed HSV triples in place.
// Trailing bytes that do not form a full triple are left untouched.
func (t *Table) ApplyInterleaved(data []uint8) {
	n := len(data) - len(data)%3
	for i := 0; i < n; i += 3 {
		data[i] = t.H[data[i]]
		data[i+1] = t.S[data[i+1]]
		data[i+2] = t.V[data[i+2]]
	}
}

// Identity reports whether the table leaves every in-domain pixel unchanged.
func (t *Table) Identity() bool {
	for i := 0; i < 256; i++ {
		if (i <= HueMax && int(t.H[i]) != i) || int(t.S[i]) != i || int(t.V[i]) != i {
			return false
		}
	}
	return true
}
