// Package source resolves image inputs into decoded bitmaps.
//
// An input is described by a Source, a closed union of where the image comes
// from: a Discord or GitHub avatar, a file in a GitHub repository, an Imgur
// upload, a solid color, inline base64 data, or (when enabled) a local file.
// Sources are parsed from their externally tagged JSON form:
//
//	{"discordprofile": {"id": 80351110224678912, "hash": "abc"}}
//	{"githubprofile": {"username": "octocat"}}
//	{"githubasset": {"owner": "o", "repo": "r", "path": "img/logo.png"}}
//	{"imgur": {"id": "a1b2c3", "subdomain": "i"}}
//	{"color": [255, 0, 0]}
//	{"base64": "iVBORw0KGgo..."}
//	{"file": "assets/base.png"}
//
// The Resolver turns a Source into an image at a requested square size.
// Network fetches go through a Fetcher; decode, resize and color synthesis
// run on a bounded worker pool so they never hold up other requests waiting
// on I/O.
package source
