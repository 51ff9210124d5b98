package layout

import "testing"

func TestResolveZones(t *testing.T) {
	tests := []struct {
		name      string
		percent   float64
		extent    float64
		container float64
		want      float64
	}{
		{"Start clamp at zero", 0, 200, 1920, 100},
		{"Start clamp below zero", -50, 200, 1920, 100},
		{"End clamp at hundred", 100, 200, 1920, 1820},
		{"End clamp above hundred", 180, 200, 1920, 1820},
		{"Exact center wide content", 50, 1000, 1920, 960},
		{"Exact center narrow content", 50, 10, 1920, 960},
		{"Exact center odd container", 50, 64, 1080, 540},
		{"Quarter interpolation", 25, 100, 1000, 275},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.percent, tt.extent, tt.container)
			if got != tt.want {
				t.Errorf("Resolve(%v, %v, %v) = %v, want %v", tt.percent, tt.extent, tt.container, got, tt.want)
			}
		})
	}
}

func TestResolveNeverClips(t *testing.T) {
	// The content box must stay inside [0, container] for any percent.
	for _, percent := range []float64{-200, -1, 0, 1, 33, 50, 99, 100, 101, 500} {
		center := Resolve(percent, 300, 1920)
		if center-150 < 0 || center+150 > 1920 {
			t.Errorf("percent %v: content box [%v,%v] leaves the container", percent, center-150, center+150)
		}
	}
}

func TestZoneOf(t *testing.T) {
	tests := []struct {
		percent float64
		want    Zone
	}{
		{-10, ZoneStart},
		{0, ZoneStart},
		{0.01, ZoneCenter},
		{50, ZoneCenter},
		{99.99, ZoneCenter},
		{100, ZoneEnd},
		{250, ZoneEnd},
	}
	for _, tt := range tests {
		if got := ZoneOf(tt.percent); got != tt.want {
			t.Errorf("ZoneOf(%v) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestFitAspect(t *testing.T) {
	tests := []struct {
		name         string
		w, h, size   float64
		wantW, wantH float64
	}{
		{"Landscape", 200, 100, 50, 50, 25},
		{"Portrait", 100, 200, 50, 25, 50},
		{"Square", 64, 64, 128, 128, 128},
		{"Zero size", 100, 100, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitAspect(tt.w, tt.h, tt.size)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitAspect(%v,%v,%v) = %v,%v want %v,%v", tt.w, tt.h, tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCenterRect(t *testing.T) {
	r := CenterRect(100, 50, 40, 20)
	if r.Min.X != 80 || r.Min.Y != 40 || r.Dx() != 40 || r.Dy() != 20 {
		t.Errorf("CenterRect = %v, want 40x20 centered at (100,50)", r)
	}
}
