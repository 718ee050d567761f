package track

import "testing"

func TestParseStreamTitle(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		wantArtist string
		wantName   string
		wantOK     bool
	}{
		{
			name:       "hyphen separator",
			title:      "Guns N' Roses - Sweet Child O' Mine",
			wantArtist: "Guns N' Roses",
			wantName:   "Sweet Child O' Mine",
			wantOK:     true,
		},
		{
			name:       "en dash separator",
			title:      "Rosalía – Despechá",
			wantArtist: "Rosalía",
			wantName:   "Despechá",
			wantOK:     true,
		},
		{
			name:       "em dash separator",
			title:      "Quevedo — Columbia",
			wantArtist: "Quevedo",
			wantName:   "Columbia",
			wantOK:     true,
		},
		{
			name:       "pipe separator",
			title:      "Dua Lipa | Levitating",
			wantArtist: "Dua Lipa",
			wantName:   "Levitating",
			wantOK:     true,
		},
		{
			name:       "surrounding whitespace is trimmed",
			title:      "  Coldplay -  Yellow  ",
			wantArtist: "Coldplay",
			wantName:   "Yellow",
			wantOK:     true,
		},
		{
			name:       "separator recurring in the name is kept",
			title:      "Jay-Z - Numb - Encore",
			wantArtist: "Jay-Z",
			wantName:   "Numb - Encore",
			wantOK:     true,
		},
		{
			name:       "duplicated artist prefix is dropped",
			title:      "Coldplay - Coldplay - Yellow",
			wantArtist: "Coldplay",
			wantName:   "Yellow",
			wantOK:     true,
		},
		{
			name:   "no separator",
			title:  "just some station slogan",
			wantOK: false,
		},
		{
			name:   "empty title",
			title:  "",
			wantOK: false,
		},
		{
			name:   "empty artist side",
			title:  " - Yellow",
			wantOK: false,
		},
		{
			name:   "empty name side",
			title:  "Coldplay - ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStreamTitle(tt.title)
			if ok != tt.wantOK {
				t.Fatalf("ParseStreamTitle(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", got.Artist, tt.wantArtist)
			}
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestParseStreamTitleRoundTrip(t *testing.T) {
	for _, sep := range titleSeparators {
		title := "The Artist" + sep + "The Song"
		got, ok := ParseStreamTitle(title)
		if !ok {
			t.Fatalf("ParseStreamTitle(%q) failed", title)
		}
		if got.Artist != "The Artist" || got.Name != "The Song" {
			t.Errorf("ParseStreamTitle(%q) = %q / %q", title, got.Artist, got.Name)
		}
	}
}
