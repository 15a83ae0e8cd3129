package style

import "testing"

// ---------------------------------------------------------------------------
// TestResolve - Icon and color tokens with defaults
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		icon      string
		color     string
		wantIcon  string
		wantColor string
	}{
		{"exact names", "Database", "green", "Database", "green"},
		{"case insensitive", "dAtAbAsE", "GREEN", "Database", "green"},
		{"separators ignored", "git-branch", " purple ", "GitBranch", "purple"},
		{"empty uses defaults", "", "", DefaultIcon, DefaultColor},
		{"unknown icon", "Unicorn", "red", DefaultIcon, "red"},
		{"unknown color", "Server", "chartreuse", "Server", DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tt.icon, tt.color)
			if got.Icon != tt.wantIcon || got.Color != tt.wantColor {
				t.Errorf("Resolve(%q, %q) = (%q, %q), want (%q, %q)",
					tt.icon, tt.color, got.Icon, got.Color, tt.wantIcon, tt.wantColor)
			}
		})
	}
}

func TestResolve_Classes(t *testing.T) {
	t.Parallel()

	got := Resolve("Code", "teal")
	want := Token{
		Icon:        "Code",
		Color:       "teal",
		TextClass:   "text-teal-400",
		BgClass:     "bg-teal-500/10",
		BorderClass: "border-teal-500/20",
	}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

func TestDefaultsAreRecognized(t *testing.T) {
	t.Parallel()

	if _, ok := iconByKey[fold(DefaultIcon)]; !ok {
		t.Errorf("default icon %q is not in the icon set", DefaultIcon)
	}
	if _, ok := colorByKey[fold(DefaultColor)]; !ok {
		t.Errorf("default color %q is not in the color set", DefaultColor)
	}
	if len(Icons()) != len(icons) || len(Colors()) != len(colors) {
		t.Error("Icons()/Colors() lost entries")
	}
}
