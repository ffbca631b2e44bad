package source

import (
	"fmt"
	"net/url"
)

// defaultAvatarSize is used for Discord avatars when no size is requested.
const defaultAvatarSize = 1024

// imgurBuckets maps the smallest covering edge length to an Imgur thumbnail
// suffix. Ordered by size.
var imgurBuckets = []struct {
	size   uint32
	suffix string
}{
	{90, "s"},
	{160, "b"},
	{320, "m"},
	{640, "l"},
	{1024, "h"},
}

// DiscordAvatarURL returns the CDN URL of a Discord avatar.
func DiscordAvatarURL(s DiscordProfile, size uint32) string {
	if size == 0 {
		size = defaultAvatarSize
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%d/%s.png?size=%d", s.ID, url.PathEscape(s.Hash), size)
}

// GithubAvatarURL returns the avatar URL of a GitHub user. The size query is
// only added for a non-zero size.
func GithubAvatarURL(s GithubProfile, size uint32) string {
	u := "https://github.com/" + url.PathEscape(s.Username) + ".png"
	if size != 0 {
		u += fmt.Sprintf("?size=%d", size)
	}
	return u
}

// ImgurSuffix returns the thumbnail suffix for the smallest bucket covering
// size. Sizes above every bucket use the largest; zero means the original.
func ImgurSuffix(size uint32) string {
	if size == 0 {
		return ""
	}
	for _, b := range imgurBuckets {
		if b.size >= size {
			return b.suffix
		}
	}
	return imgurBuckets[len(imgurBuckets)-1].suffix
}

// ImgurURL returns the URL of an Imgur image at the bucket for size.
func ImgurURL(s Imgur, size uint32) string {
	host := "imgur.com"
	if s.Subdomain != "" {
		host = s.Subdomain + "." + host
	}
	return fmt.Sprintf("https://%s/%s%s.png", host, url.PathEscape(s.ID), ImgurSuffix(size))
}

// GithubContentsURL returns the contents API endpoint for a repository file.
func GithubContentsURL(s GithubAsset) string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/contents/%s",
		url.PathEscape(s.Owner), url.PathEscape(s.Repo), escapePath(s.Path))
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
