package source

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Source
	}{
		{"discord", `{"discordprofile":{"id":80351110224678912,"hash":"a_1f2e"}}`, DiscordProfile{ID: 80351110224678912, Hash: "a_1f2e"}},
		{"github profile", `{"githubprofile":{"username":"octocat"}}`, GithubProfile{Username: "octocat"}},
		{"github asset", `{"githubasset":{"owner":"o","repo":"r","path":"img/a.png"}}`, GithubAsset{Owner: "o", Repo: "r", Path: "img/a.png"}},
		{"imgur", `{"imgur":{"id":"abc","subdomain":"i"}}`, Imgur{ID: "abc", Subdomain: "i"}},
		{"imgur empty subdomain", `{"imgur":{"id":"abc","subdomain":""}}`, Imgur{ID: "abc"}},
		{"color", `{"color":[255,128,0]}`, Color{R: 255, G: 128, B: 0}},
		{"base64", `{"base64":"aGVsbG8="}`, Base64{Data: "aGVsbG8="}},
		{"file", `{"file":"assets/base.png"}`, File{Path: "assets/base.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
			if got.Tag() != tt.want.Tag() {
				t.Errorf("tag: got %s, want %s", got.Tag(), tt.want.Tag())
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"array", `[1,2,3]`},
		{"no tag", `{}`},
		{"null", `null`},
		{"two tags", `{"color":[1,2,3],"base64":"aa"}`},
		{"unknown tag", `{"gravatar":{"email":"a@b.c"}}`},
		{"color too short", `{"color":[1,2]}`},
		{"color too long", `{"color":[1,2,3,4]}`},
		{"color out of range", `{"color":[256,0,0]}`},
		{"color not array", `{"color":"red"}`},
		{"discord missing hash", `{"discordprofile":{"id":1}}`},
		{"discord id string", `{"discordprofile":{"id":"1","hash":"x"}}`},
		{"asset missing path", `{"githubasset":{"owner":"o","repo":"r"}}`},
		{"imgur missing subdomain", `{"imgur":{"id":"abc"}}`},
		{"base64 not string", `{"base64":12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !apperr.IsKind(err, apperr.KindInput) {
				t.Errorf("kind: got %s, want %s (%v)", apperr.KindOf(err), apperr.KindInput, err)
			}
		})
	}
}

func TestParse_TagCountMessage(t *testing.T) {
	_, err := Parse([]byte(`{"file":"a.png","color":[1,2,3]}`))
	if got := apperr.MessageOf(err); got != "image source must have exactly one tag, got 2 [color, file]" {
		t.Errorf("message: got %q", got)
	}

	src, err := Parse([]byte(`{"file":"a.png"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if src != (File{Path: "a.png"}) {
		t.Errorf("got %#v", src)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	sources := []Source{
		DiscordProfile{ID: 42, Hash: "h"},
		GithubProfile{Username: "u"},
		GithubAsset{Owner: "o", Repo: "r", Path: "p.png"},
		Imgur{ID: "i", Subdomain: "s"},
		Color{R: 1, G: 2, B: 3},
		Base64{Data: "AAAA"},
		File{Path: "a.png"},
	}

	for _, src := range sources {
		t.Run(src.Tag(), func(t *testing.T) {
			data, err := Marshal(src)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			got, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse(%s) failed: %v", data, err)
			}
			if got != src {
				t.Errorf("got %#v, want %#v", got, src)
			}
		})
	}
}

func TestList_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Images List `json:"images"`
	}
	input := `{"images":[{"color":[255,0,0]},{"githubprofile":{"username":"octocat"}}]}`
	if err := sonic.Unmarshal([]byte(input), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(payload.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(payload.Images))
	}
	if payload.Images[0] != (Color{R: 255}) {
		t.Errorf("images[0]: got %#v", payload.Images[0])
	}
	if payload.Images[1] != (GithubProfile{Username: "octocat"}) {
		t.Errorf("images[1]: got %#v", payload.Images[1])
	}
}

func TestList_UnmarshalJSON_BadItem(t *testing.T) {
	var l List
	err := l.UnmarshalJSON([]byte(`[{"color":[1,2,3]},{"nope":1}]`))
	if !apperr.IsKind(err, apperr.KindInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	if msg := apperr.MessageOf(err); !strings.HasPrefix(msg, "invalid image at index 1") {
		t.Errorf("message: got %q", msg)
	}
}

func TestList_MarshalJSON(t *testing.T) {
	l := List{Color{R: 9, G: 8, B: 7}, Base64{Data: "QQ=="}}

	data, err := l.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	var back List
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if len(back) != 2 || back[0] != l[0] || back[1] != l[1] {
		t.Errorf("got %#v, want %#v", back, l)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{DiscordProfile{ID: 7}, "discordprofile:7"},
		{GithubAsset{Owner: "o", Repo: "r", Path: "a/b.png"}, "githubasset:o/r/a/b.png"},
		{Color{R: 1, G: 2, B: 3}, "color:1,2,3"},
		{Base64{Data: "abcd"}, "base64:4 chars"},
		{nil, "unknown"},
	}
	for _, tt := range tests {
		if got := Describe(tt.src); got != tt.want {
			t.Errorf("Describe(%#v): got %q, want %q", tt.src, got, tt.want)
		}
	}
}
