package source

import (
	"context"
	"image/color"
	"net/http"
	"strings"
	"testing"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

func TestFetchGithubAsset(t *testing.T) {
	asset := GithubAsset{Owner: "octo", Repo: "site", Path: "logo.png"}
	api := GithubContentsURL(asset)
	image := pngBytes(t, 4, 4, color.NRGBA{0, 0, 255, 255})

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperr.Kind
		wantMsg  string
	}{
		{
			name:   "file",
			status: http.StatusOK,
			body:   `{"size":1200,"type":"file","download_url":"https://raw.example/logo.png"}`,
		},
		{
			name:     "too big",
			status:   http.StatusOK,
			body:     `{"size":600000,"type":"file","download_url":"https://raw.example/logo.png"}`,
			wantKind: apperr.KindSizeLimit,
			wantMsg:  "500000",
		},
		{
			name:     "exactly the limit",
			status:   http.StatusOK,
			body:     `{"size":500000,"type":"file","download_url":"https://raw.example/logo.png"}`,
			wantKind: "",
		},
		{
			name:     "directory descriptor",
			status:   http.StatusOK,
			body:     `{"size":0,"type":"dir","download_url":null}`,
			wantKind: apperr.KindInput,
			wantMsg:  "dir",
		},
		{
			name:     "directory listing",
			status:   http.StatusOK,
			body:     `[{"name":"a.png","type":"file"}]`,
			wantKind: apperr.KindInput,
			wantMsg:  "dir",
		},
		{
			name:     "symlink checked before size",
			status:   http.StatusOK,
			body:     `{"size":900000,"type":"symlink","download_url":"https://raw.example/logo.png"}`,
			wantKind: apperr.KindInput,
			wantMsg:  "symlink",
		},
		{
			name:     "too_large envelope",
			status:   http.StatusForbidden,
			body:     `{"message":"This API returns blobs up to 1 MB in size","errors":[{"resource":"Blob","field":"data","code":"too_large"}]}`,
			wantKind: apperr.KindSizeLimit,
			wantMsg:  "too large",
		},
		{
			name:     "not found envelope",
			status:   http.StatusNotFound,
			body:     `{"message":"Not Found","documentation_url":"https://docs.github.com"}`,
			wantKind: apperr.KindInput,
			wantMsg:  "Message from github: Not Found",
		},
		{
			name:     "server error without body",
			status:   http.StatusBadGateway,
			body:     ``,
			wantKind: apperr.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			f.serve(api, tt.status, []byte(tt.body))
			f.serve("https://raw.example/logo.png", http.StatusOK, image)

			data, err := fetchGithubAsset(context.Background(), f, asset)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(data) != string(image) {
					t.Error("downloaded bytes differ")
				}
				return
			}

			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("kind: got %s, want %s (%v)", apperr.KindOf(err), tt.wantKind, err)
			}
			if tt.wantMsg != "" && !strings.Contains(apperr.MessageOf(err), tt.wantMsg) {
				t.Errorf("message %q does not mention %q", apperr.MessageOf(err), tt.wantMsg)
			}
			for _, u := range f.urls() {
				if u == "https://raw.example/logo.png" {
					t.Error("download should not be attempted")
				}
			}
		})
	}
}

func TestFetchGithubAsset_TooLargeIgnoresMessage(t *testing.T) {
	asset := GithubAsset{Owner: "o", Repo: "r", Path: "big.png"}
	f := newFakeFetcher()
	f.serve(GithubContentsURL(asset), http.StatusOK, []byte(`{"message":"anything at all","errors":[{"code":"custom"},{"code":"too_large"}]}`))

	_, err := fetchGithubAsset(context.Background(), f, asset)
	if !apperr.IsKind(err, apperr.KindSizeLimit) {
		t.Fatalf("expected size limit error, got %v", err)
	}
	if strings.Contains(apperr.MessageOf(err), "anything at all") {
		t.Error("size limit error should not carry the provider message")
	}
}

func TestFetchGithubAsset_TooLargeWithoutMessage(t *testing.T) {
	asset := GithubAsset{Owner: "o", Repo: "r", Path: "big.png"}
	f := newFakeFetcher()
	f.serve(GithubContentsURL(asset), http.StatusForbidden, []byte(`{"errors":[{"code":"too_large"}]}`))

	_, err := fetchGithubAsset(context.Background(), f, asset)
	if !apperr.IsKind(err, apperr.KindSizeLimit) {
		t.Fatalf("expected size limit error, got %v", err)
	}
	if got := apperr.MessageOf(err); got != "File too large, must be below 500000" {
		t.Errorf("message: got %q", got)
	}
}
