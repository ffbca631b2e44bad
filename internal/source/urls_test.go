package source

import "testing"

func TestImgurSuffix(t *testing.T) {
	tests := []struct {
		size uint32
		want string
	}{
		{0, ""},
		{1, "s"},
		{90, "s"},
		{91, "b"},
		{100, "b"},
		{160, "b"},
		{256, "m"},
		{320, "m"},
		{640, "l"},
		{1000, "h"},
		{1024, "h"},
		{2000, "h"},
	}

	for _, tt := range tests {
		if got := ImgurSuffix(tt.size); got != tt.want {
			t.Errorf("ImgurSuffix(%d): got %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestImgurURL(t *testing.T) {
	tests := []struct {
		name string
		src  Imgur
		size uint32
		want string
	}{
		{"with subdomain", Imgur{ID: "abc", Subdomain: "i"}, 100, "https://i.imgur.com/abcb.png"},
		{"no subdomain", Imgur{ID: "abc"}, 0, "https://imgur.com/abc.png"},
		{"capped", Imgur{ID: "xyz", Subdomain: "i"}, 4096, "https://i.imgur.com/xyzh.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImgurURL(tt.src, tt.size); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDiscordAvatarURL(t *testing.T) {
	src := DiscordProfile{ID: 80351110224678912, Hash: "8342729096ea3675442027381ff50dfe"}

	tests := []struct {
		size uint32
		want string
	}{
		{0, "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png?size=1024"},
		{256, "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png?size=256"},
	}
	for _, tt := range tests {
		if got := DiscordAvatarURL(src, tt.size); got != tt.want {
			t.Errorf("size %d: got %s, want %s", tt.size, got, tt.want)
		}
	}
}

func TestGithubAvatarURL(t *testing.T) {
	src := GithubProfile{Username: "octocat"}

	if got := GithubAvatarURL(src, 0); got != "https://github.com/octocat.png" {
		t.Errorf("size 0: got %s", got)
	}
	if got := GithubAvatarURL(src, 64); got != "https://github.com/octocat.png?size=64" {
		t.Errorf("size 64: got %s", got)
	}
}

func TestGithubContentsURL(t *testing.T) {
	got := GithubContentsURL(GithubAsset{Owner: "octo", Repo: "site", Path: "img/hello world.png"})
	want := "https://api.github.com/repos/octo/site/contents/img/hello%20world.png"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
