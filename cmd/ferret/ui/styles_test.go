package ui

import "testing"

func TestThemeFromName(t *testing.T) {
	if !ThemeFromName("dark").IsDark {
		t.Fatalf("expected dark theme for name \"dark\"")
	}
	if ThemeFromName("light").IsDark {
		t.Fatalf("expected light theme for name \"light\"")
	}
}

func TestDetectThemeFromColorFgBg(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for background index 0")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme for background index 15")
	}
}
