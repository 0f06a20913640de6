package backend

import "testing"

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"defaults", DefaultParams(), true},
		{"bounds", Params{Steps: 100, GuidanceScale: 2, Size: "768x768"}, true},
		{"few steps", Params{Steps: 19, GuidanceScale: 7.5, Size: "512x512"}, false},
		{"many steps", Params{Steps: 101, GuidanceScale: 7.5, Size: "512x512"}, false},
		{"low guidance", Params{Steps: 50, GuidanceScale: 1.9, Size: "512x512"}, false},
		{"high guidance", Params{Steps: 50, GuidanceScale: 20.1, Size: "512x512"}, false},
		{"odd size", Params{Steps: 50, GuidanceScale: 7.5, Size: "640x480"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}

func TestParseSizeIsHeightFirst(t *testing.T) {
	h, w, err := ParseSize("768x512")
	if err != nil || h != 768 || w != 512 {
		t.Fatalf("ParseSize = %d, %d, %v", h, w, err)
	}
	for _, bad := range []string{"", "512", "ax512", "512x0", "1x2x3"} {
		if _, _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) succeeded", bad)
		}
	}
}
