package services

import "testing"

func TestFormatHashtag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"golang", "golang"},
		{"Go Lang", "golang"},
		{"  spaced  ", "spaced"},
		{"web-dev", "webdev"},
		{"snake_case", "snake_case"},
		{"C++", "c"},
		{"42rules", ""},
		{"", ""},
		{"!!!", ""},
	}

	for _, c := range cases {
		if got := FormatHashtag(c.in); got != c.want {
			t.Errorf("FormatHashtag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildPostURL(t *testing.T) {
	if got := BuildPostURL("https://blog.example.com/", "abc"); got != "https://blog.example.com/api/blog/abc" {
		t.Fatalf("unexpected URL %q", got)
	}
	if got := BuildPostURL("", "abc"); got != "" {
		t.Fatalf("expected empty URL without a base, got %q", got)
	}
	if got := BuildPostURL("https://blog.example.com", ""); got != "" {
		t.Fatalf("expected empty URL without a post id, got %q", got)
	}
}
