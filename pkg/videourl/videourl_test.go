package videourl

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=g8w-XMxsLP8", "g8w-XMxsLP8"},
		{"watch URL with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"trailing path segment", "https://youtu.be/dQw4w9WgXcQ/extra", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) returned error: %v", tt.url, err)
			}
			if got.String() != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractVideoID_Malformed(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"https://www.youtube.com/watch?v=tooshort",
		"https://example.com/",
	}

	for _, url := range tests {
		got, err := ExtractVideoID(url)
		if !errors.Is(err, ErrNoVideoID) {
			t.Errorf("ExtractVideoID(%q) error = %v, want ErrNoVideoID", url, err)
		}
		if got != "" {
			t.Errorf("ExtractVideoID(%q) = %q, want empty id on failure", url, got)
		}
	}
}
