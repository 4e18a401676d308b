package youtube

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected video ID %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	invalid := []string{
		"",
		"not a url",
		"https://example.com/page",
		"https://www.youtube.com/watch?v=short",
	}

	for _, url := range invalid {
		if _, err := ExtractVideoID(url); err == nil {
			t.Errorf("Expected error for %q, got nil", url)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
		t.Error("Expected watch URL to be valid")
	}
	if IsValidURL("https://example.com") {
		t.Error("Expected non-YouTube URL to be invalid")
	}
}

func TestWatchURL(t *testing.T) {
	got := WatchURL("dQw4w9WgXcQ")
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
