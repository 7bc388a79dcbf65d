package hsv

import "testing"

// Every input byte under every in-domain adjustment must stay in domain.
func TestTable_OutputsInDomain(t *testing.T) {
	for h := 0; h <= HueMax; h += 7 {
		for sv := 0; sv <= 255; sv += 15 {
			tbl := NewTable(Adjustment{Hue: h, Saturation: sv, Value: sv})
			for i := 0; i < 256; i++ {
				if int(tbl.H[i]) > HueMax {
					t.Fatalf("adj(%d,%d,%d): H[%d] = %d > %d", h, sv, sv, i, tbl.H[i], HueMax)
				}
				// S and V are uint8; they can't exceed 255, but must not
				// exceed the input either since the scale is at most 1.
				if int(tbl.S[i]) > i || int(tbl.V[i]) > i {
					t.Fatalf("adj(%d,%d,%d): S[%d]=%d V[%d]=%d exceed input", h, sv, sv, i, tbl.S[i], i, tbl.V[i])
				}
			}
		}
	}
}

func TestTable_NeutralIsIdentity(t *testing.T) {
	if !NewTable(Neutral).Identity() {
		t.Error("table for Neutral should be the identity")
	}
	if NewTable(Adjustment{Hue: 1, Saturation: 255, Value: 255}).Identity() {
		t.Error("hue offset table should not be the identity")
	}
}

func TestTable_HueClampsInsteadOfWrapping(t *testing.T) {
	tbl := NewTable(Adjustment{Hue: 90, Saturation: 255, Value: 255})

	tests := []struct {
		in, want uint8
	}{
		{0, 90},
		{50, 140},
		{89, 179},
		{90, 179},
		{170, 179},
		{179, 179},
	}
	for _, tt := range tests {
		if got := tbl.H[tt.in]; got != tt.want {
			t.Errorf("H[%d] = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTable_ScaleTruncates(t *testing.T) {
	tbl := NewTable(Adjustment{Hue: 0, Saturation: 128, Value: 0})

	// 200 * 128 / 255 = 100.39
	if got := tbl.S[200]; got != 100 {
		t.Errorf("S[200] = %d, want 100", got)
	}
	if got := tbl.S[255]; got != 128 {
		t.Errorf("S[255] = %d, want 128", got)
	}
	if got := tbl.V[255]; got != 0 {
		t.Errorf("V[255] = %d, want 0", got)
	}
}

func TestTable_ApplyInterleaved(t *testing.T) {
	tbl := NewTable(Adjustment{Hue: 10, Saturation: 0, Value: 255})
	data := []uint8{100, 200, 50, 175, 1, 2, 9}

	tbl.ApplyInterleaved(data)

	want := []uint8{110, 0, 50, 179, 0, 2, 9}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestTable_Pixel(t *testing.T) {
	tbl := NewTable(Adjustment{Hue: 5, Saturation: 255, Value: 255})
	h, s, v := tbl.Pixel(10, 20, 30)
	if h != 15 || s != 20 || v != 30 {
		t.Errorf("Pixel(10,20,30) = (%d,%d,%d), want (15,20,30)", h, s, v)
	}
}
