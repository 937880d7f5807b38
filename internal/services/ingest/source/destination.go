package source

import (
	"context"
	"path/filepath"

	"tubeport/internal/adapters/destination"
	"tubeport/internal/services/ingest/domain"
)

// Remote is the destination client surface; *destination.Client satisfies it
type Remote interface {
	Authenticate(ctx context.Context, cred destination.Credential) (destination.Token, error)
	CreateAsset(ctx context.Context, tok destination.Token, ar destination.AssetRequest, mediaPath string) (string, error)
	Publish(ctx context.Context, tok destination.Token, cm destination.Comment) (string, error)
}

// Destination implements the Authenticator, AssetCreator and Publisher ports
type Destination struct {
	r Remote
}

var (
	_ domain.Authenticator = (*Destination)(nil)
	_ domain.AssetCreator  = (*Destination)(nil)
	_ domain.Publisher     = (*Destination)(nil)
)

// NewDestination wraps r
func NewDestination(r Remote) *Destination { return &Destination{r: r} }

func (d *Destination) Authenticate(ctx context.Context, cred domain.Credential) (domain.BearerToken, error) {
	tok, err := d.r.Authenticate(ctx, destination.Credential{Email: cred.Email, Password: cred.Password})
	if err != nil {
		return domain.BearerToken{}, err
	}
	return domain.BearerToken{JWT: tok.JWT, Refresh: tok.Refresh}, nil
}

func (d *Destination) CreateAsset(ctx context.Context, tok domain.BearerToken, v domain.NormalizedVideo, mediaPath string) (string, error) {
	return d.r.CreateAsset(ctx, token(tok), destination.AssetRequest{
		FileName:    filepath.Base(mediaPath),
		Name:        v.Title,
		Description: v.Description,
		Category:    v.Category,
		Keywords:    v.Keywords,
	}, mediaPath)
}

func (d *Destination) Publish(ctx context.Context, tok domain.BearerToken, it domain.PublishItem) (string, error) {
	return d.r.Publish(ctx, token(tok), destination.Comment{
		Comment:        it.Text,
		CreatedByID:    it.Author.UserID,
		UserName:       it.Author.Name,
		ProfilePicture: it.Author.Avatar,
		PubnubChannel:  destination.Channel(it.AssetID),
		CommentedAt:    it.Offset.Seconds(),
		AssetID:        it.AssetID,
		ParentID:       it.ParentID,
	})
}

func token(t domain.BearerToken) destination.Token {
	return destination.Token{JWT: t.JWT, Refresh: t.Refresh}
}
