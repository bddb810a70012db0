package chat

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "watch url", in: "see https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short url", in: "see https://youtu.be/dQw4w9WgXcQ now", want: "dQw4w9WgXcQ"},
		{name: "embed url", in: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts url", in: "https://youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "v path", in: "http://youtube.com/v/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "first of several", in: "https://youtu.be/dQw4w9WgXcQ and https://youtu.be/zF34dRivLOw", want: "dQw4w9WgXcQ"},
		{name: "embedded in markdown", in: "[Watch here](https://www.youtube.com/watch?v=zF34dRivLOw)", want: "zF34dRivLOw"},
		{name: "no url", in: "just some text about videos", want: ""},
		{name: "non youtube url", in: "https://vimeo.com/123456789", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractYouTubeID(tc.in); got != tc.want {
				t.Fatalf("ExtractYouTubeID(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
