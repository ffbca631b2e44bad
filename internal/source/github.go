package source

import (
	"bytes"
	"context"
	"errors"

	"github.com/bytedance/sonic"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

// MaxGithubAssetSize is the largest repository file, in bytes, that will be
// downloaded.
const MaxGithubAssetSize = 500000

// githubContents covers both shapes the contents API answers with: a file
// descriptor or an error envelope.
type githubContents struct {
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`

	Message string `json:"message"`
	Errors  []struct {
		Code string `json:"code"`
	} `json:"errors"`
}

func (c *githubContents) isEnvelope() bool {
	return c.Type == "" && c.DownloadURL == "" && (c.Message != "" || len(c.Errors) > 0)
}

// fetchGithubAsset downloads a repository file after checking its metadata.
func fetchGithubAsset(ctx context.Context, f Fetcher, s GithubAsset) ([]byte, error) {
	const op = "source.github_asset"

	body, fetchErr := f.Fetch(ctx, GithubContentsURL(s))
	if fetchErr != nil {
		var status *StatusError
		if !errors.As(fetchErr, &status) || len(status.Body) == 0 {
			return nil, fetchErr
		}
		body = status.Body
	}

	// Directories are listed as an array of entries.
	if trimmed := bytes.TrimSpace(body); fetchErr == nil && len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, apperr.New(apperr.KindInput, op, "Given path is not a file, it is dir")
	}

	var contents githubContents
	if err := sonic.Unmarshal(body, &contents); err != nil {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, apperr.Wrap(apperr.KindTransport, op, "unexpected response from github", err)
	}

	if !contents.isEnvelope() && fetchErr != nil {
		return nil, fetchErr
	}
	if contents.isEnvelope() {
		for _, e := range contents.Errors {
			if e.Code == "too_large" {
				return nil, apperr.Newf(apperr.KindSizeLimit, op, "File too large, must be below %d", MaxGithubAssetSize)
			}
		}
		return nil, apperr.New(apperr.KindInput, op, "Message from github: "+contents.Message)
	}

	if contents.Type != "file" {
		return nil, apperr.New(apperr.KindInput, op, "Given path is not a file, it is "+contents.Type)
	}
	if contents.Size > MaxGithubAssetSize {
		return nil, apperr.Newf(apperr.KindSizeLimit, op, "File size too large, must be below %d", MaxGithubAssetSize)
	}
	if contents.DownloadURL == "" {
		return nil, apperr.New(apperr.KindTransport, op, "github returned no download url")
	}

	return f.Fetch(ctx, contents.DownloadURL)
}
