package source

import "fmt"

// Source describes where one input image comes from.
//
// The set of implementations is closed; use a type switch to handle each.
type Source interface {
	// Tag returns the JSON tag naming the variant.
	Tag() string
	isSource()
}

// DiscordProfile is a Discord user avatar.
type DiscordProfile struct {
	ID   uint64 `json:"id"`
	Hash string `json:"hash"`
}

// GithubProfile is a GitHub user avatar.
type GithubProfile struct {
	Username string `json:"username"`
}

// GithubAsset is a file stored in a GitHub repository.
type GithubAsset struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Path  string `json:"path"`
}

// Imgur is an image hosted on Imgur.
type Imgur struct {
	ID        string `json:"id"`
	Subdomain string `json:"subdomain"`
}

// Color is a solid RGB fill synthesized locally.
type Color struct {
	R, G, B uint8
}

// Base64 is inline standard-encoded image data.
type Base64 struct {
	Data string
}

// File is a path read through the asset cache. Only honored when local
// file input is enabled.
type File struct {
	Path string
}

const (
	TagDiscordProfile = "discordprofile"
	TagGithubProfile  = "githubprofile"
	TagGithubAsset    = "githubasset"
	TagImgur          = "imgur"
	TagColor          = "color"
	TagBase64         = "base64"
	TagFile           = "file"
)

func (DiscordProfile) Tag() string { return TagDiscordProfile }
func (GithubProfile) Tag() string  { return TagGithubProfile }
func (GithubAsset) Tag() string    { return TagGithubAsset }
func (Imgur) Tag() string          { return TagImgur }
func (Color) Tag() string          { return TagColor }
func (Base64) Tag() string         { return TagBase64 }
func (File) Tag() string           { return TagFile }

func (DiscordProfile) isSource() {}
func (GithubProfile) isSource()  {}
func (GithubAsset) isSource()    {}
func (Imgur) isSource()          {}
func (Color) isSource()          {}
func (Base64) isSource()         {}
func (File) isSource()           {}

// Describe returns a short log-friendly description of s. Inline data is
// summarized by length only.
func Describe(s Source) string {
	switch v := s.(type) {
	case DiscordProfile:
		return fmt.Sprintf("discordprofile:%d", v.ID)
	case GithubProfile:
		return "githubprofile:" + v.Username
	case GithubAsset:
		return fmt.Sprintf("githubasset:%s/%s/%s", v.Owner, v.Repo, v.Path)
	case Imgur:
		return "imgur:" + v.ID
	case Color:
		return fmt.Sprintf("color:%d,%d,%d", v.R, v.G, v.B)
	case Base64:
		return fmt.Sprintf("base64:%d chars", len(v.Data))
	case File:
		return "file:" + v.Path
	default:
		return "unknown"
	}
}
