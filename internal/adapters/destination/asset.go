package destination

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	perr "tubeport/internal/platform/errors"
)

const signedURLMutation = `mutation GetSignedUrl(
  $fileName: String!
  $assetName: String!
  $assetDescription: String!
  $metadata: JSONString
) {
  getSignedUrl(
    fileName: $fileName
    assetName: $assetName
    assetDescription: $assetDescription
    metadata: $metadata
  ) {
    uploadUrl
    assetId
    assetName
    assetDescription
    error
  }
}`

// AssetRequest describes the asset to create
type AssetRequest struct {
	FileName    string
	Name        string
	Description string
	Category    string
	Keywords    []string
}

// SignedUpload is the backend's answer to getSignedUrl
type SignedUpload struct {
	UploadURL   string `json:"uploadUrl"`
	AssetID     string `json:"assetId"`
	Name        string `json:"assetName"`
	Description string `json:"assetDescription"`
	Error       string `json:"error"`
}

type assetMetadata struct {
	Categories        []string `json:"categories"`
	PreferredKeywords []string `json:"preferredKeywords"`
}

// SignedURL registers the asset and returns where to upload its media
func (c *Client) SignedURL(ctx context.Context, tok Token, ar AssetRequest) (SignedUpload, error) {
	meta := assetMetadata{Categories: []string{ar.Category}, PreferredKeywords: ar.Keywords}
	if meta.PreferredKeywords == nil {
		meta.PreferredKeywords = []string{}
	}
	mb, err := json.Marshal(meta)
	if err != nil {
		return SignedUpload{}, perr.Wrap(err, perr.ErrorCodeJSON, "signed url: metadata")
	}
	vars := map[string]any{
		"fileName":         ar.FileName,
		"assetName":        ar.Name,
		"assetDescription": ar.Description,
		"metadata":         string(mb),
	}
	var r struct {
		GetSignedURL *SignedUpload `json:"getSignedUrl"`
	}
	if _, err := c.graphql(ctx, "signed_url", tok.JWT, signedURLMutation, vars, &r); err != nil {
		return SignedUpload{}, err
	}
	if r.GetSignedURL == nil {
		return SignedUpload{}, perr.Newf(perr.ErrorCodeUnknown, "signed url: empty response")
	}
	su := *r.GetSignedURL
	if su.Error != "" {
		return SignedUpload{}, perr.Validationf("signed url: %s", su.Error)
	}
	if su.UploadURL == "" || su.AssetID == "" {
		return SignedUpload{}, perr.Newf(perr.ErrorCodeUnknown, "signed url: missing upload url or asset id")
	}
	return su, nil
}

// Upload PUTs the file at path to a signed url
func (c *Client) Upload(ctx context.Context, uploadURL, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "upload: %s", path)
	}
	ctype := ContentType(path)
	resp, err := c.do(ctx, c.upload, "upload", func(ctx context.Context) (*http.Request, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		req.ContentLength = st.Size()
		req.Header.Set("Content-Type", ctype)
		return req, nil
	})
	if err != nil {
		return err
	}
	_ = drainAndClose(resp.Body)
	c.log.Info().Int64("bytes", st.Size()).Str("content_type", ctype).Msg("media uploaded")
	return nil
}

// CreateAsset registers the asset then uploads its media, returning the asset id
func (c *Client) CreateAsset(ctx context.Context, tok Token, ar AssetRequest, mediaPath string) (string, error) {
	if ar.FileName == "" {
		ar.FileName = filepath.Base(mediaPath)
	}
	su, err := c.SignedURL(ctx, tok, ar)
	if err != nil {
		return "", err
	}
	if err := c.Upload(ctx, su.UploadURL, mediaPath); err != nil {
		return "", perr.WithOp(err, "upload "+su.AssetID)
	}
	return su.AssetID, nil
}

// ContentType guesses the media type from the extension, defaulting to video/mp4
func ContentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "video/mp4"
}
