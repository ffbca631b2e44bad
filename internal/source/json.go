package source

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// Parse decodes the externally tagged JSON form of a Source.
//
// The object must carry exactly one known tag. Any other shape is an
// input error.
func Parse(data []byte) (Source, error) {
	var tagged map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &tagged); err != nil {
		return nil, apperr.Wrap(apperr.KindInput, "source.parse", "image source must be a JSON object", err)
	}
	tags := make([]string, 0, len(tagged))
	for k := range tagged {
		tags = append(tags, k)
	}
	if len(tags) != 1 {
		sort.Strings(tags)
		return nil, apperr.Newf(apperr.KindInput, "source.parse",
			"image source must have exactly one tag, got %d [%s]", len(tags), strings.Join(tags, ", "))
	}

	tag := tags[0]
	return parseVariant(tag, tagged[tag])
}

func parseVariant(tag string, raw json.RawMessage) (Source, error) {
	var (
		src Source
		err error
	)
	switch tag {
	case TagDiscordProfile:
		var v DiscordProfile
		err = unmarshalFields(raw, &v, "id", "hash")
		src = v
	case TagGithubProfile:
		var v GithubProfile
		err = unmarshalFields(raw, &v, "username")
		src = v
	case TagGithubAsset:
		var v GithubAsset
		err = unmarshalFields(raw, &v, "owner", "repo", "path")
		src = v
	case TagImgur:
		var v Imgur
		err = unmarshalFields(raw, &v, "id", "subdomain")
		src = v
	case TagColor:
		var rgb [3]uint8
		var parts []json.RawMessage
		if err = sonic.Unmarshal(raw, &parts); err == nil && len(parts) != 3 {
			return nil, apperr.Newf(apperr.KindInput, "source.parse", "color must have 3 components, got %d", len(parts))
		}
		if err == nil {
			err = sonic.Unmarshal(raw, &rgb)
		}
		src = Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	case TagBase64:
		var s string
		err = sonic.Unmarshal(raw, &s)
		src = Base64{Data: s}
	case TagFile:
		var s string
		err = sonic.Unmarshal(raw, &s)
		src = File{Path: s}
	default:
		return nil, apperr.Newf(apperr.KindInput, "source.parse", "unknown image source %q", tag)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, "source.parse", "invalid "+tag+" source", err)
	}
	return src, nil
}

// unmarshalFields decodes raw into v after checking every required field is
// present.
func unmarshalFields(raw json.RawMessage, v any, required ...string) error {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return apperr.Newf(apperr.KindInput, "source.parse", "missing field %q", name)
		}
	}
	return sonic.Unmarshal(raw, v)
}

// Marshal encodes s in its externally tagged JSON form.
func Marshal(s Source) ([]byte, error) {
	var payload any
	switch v := s.(type) {
	case Color:
		payload = [3]uint8{v.R, v.G, v.B}
	case Base64:
		payload = v.Data
	case File:
		payload = v.Path
	case DiscordProfile, GithubProfile, GithubAsset, Imgur:
		payload = v
	default:
		return nil, apperr.Newf(apperr.KindInternal, "source.marshal", "unknown source type %T", s)
	}
	return sonic.Marshal(map[string]any{s.Tag(): payload})
}

// List is an ordered list of sources with a JSON array form.
type List []Source

// UnmarshalJSON implements json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := sonic.Unmarshal(data, &items); err != nil {
		return apperr.Wrap(apperr.KindInput, "source.parse", "images must be a JSON array", err)
	}
	out := make(List, 0, len(items))
	for i, item := range items {
		src, err := Parse(item)
		if err != nil {
			return &apperr.Error{
				Kind:    apperr.KindInput,
				Op:      "source.parse",
				Message: fmt.Sprintf("invalid image at index %d: %s", i, apperr.MessageOf(err)),
				Cause:   err,
			}
		}
		out = append(out, src)
	}
	*l = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(l))
	for _, s := range l {
		b, err := Marshal(s)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return sonic.Marshal(items)
}
