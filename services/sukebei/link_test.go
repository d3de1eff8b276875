package sukebei

import "testing"

func TestSelectLink(t *testing.T) {
	tests := []struct {
		name     string
		hrefs    []string
		wantLink string
		wantHash string
		wantOK   bool
	}{
		{
			name:     "magnet preferred even when listed second",
			hrefs:    []string{"/download/1.torrent", "magnet:?xt=urn:btih:ABCDEF0123&dn=x"},
			wantLink: "magnet:?xt=urn:btih:ABCDEF0123&dn=x",
			wantHash: "abcdef0123",
			wantOK:   true,
		},
		{
			name:     "torrent resolved against base",
			hrefs:    []string{"/view/1", "/download/1.torrent"},
			wantLink: "https://sukebei.nyaa.si/download/1.torrent",
			wantOK:   true,
		},
		{
			name:     "absolute torrent kept",
			hrefs:    []string{"https://mirror.example/download/2.torrent"},
			wantLink: "https://mirror.example/download/2.torrent",
			wantOK:   true,
		},
		{
			name:     "scheme and extension match case-insensitively",
			hrefs:    []string{"/download/3.TORRENT", "MAGNET:?xt=urn:btih:FEED&dn=x"},
			wantLink: "MAGNET:?xt=urn:btih:FEED&dn=x",
			wantHash: "feed",
			wantOK:   true,
		},
		{
			name:     "uppercase torrent extension",
			hrefs:    []string{"/download/3.Torrent"},
			wantLink: "https://sukebei.nyaa.si/download/3.Torrent",
			wantOK:   true,
		},
		{
			name:     "magnet without btih",
			hrefs:    []string{"magnet:?dn=name"},
			wantLink: "magnet:?dn=name",
			wantOK:   true,
		},
		{
			name:   "no usable link",
			hrefs:  []string{"/view/1", "#comments"},
			wantOK: false,
		},
		{
			name:   "empty",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			link, hash, ok := SelectLink(tc.hrefs, DefaultBaseURL)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if link != tc.wantLink {
				t.Errorf("link = %q, want %q", link, tc.wantLink)
			}
			if hash != tc.wantHash {
				t.Errorf("hash = %q, want %q", hash, tc.wantHash)
			}
		})
	}
}

func TestExtractInfoHash(t *testing.T) {
	tests := map[string]string{
		"magnet:?xt=urn:btih:ABC123&dn=x": "abc123",
		"magnet:?dn=x&xt=urn:BTIH:Ff00":   "ff00",
		"magnet:?dn=x":                    "",
		"https://example.com/a.torrent":   "",
	}
	for input, want := range tests {
		if got := ExtractInfoHash(input); got != want {
			t.Errorf("ExtractInfoHash(%q) = %q, want %q", input, got, want)
		}
	}
}
