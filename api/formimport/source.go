package formimport

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

const FormMimeType = "application/vnd.google-apps.form"

type FormFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime"`
}

// Source reads forms on behalf of the user owning token.
type Source interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	ListForms(ctx context.Context, token *oauth2.Token, query string) ([]FormFile, error)
	GetForm(ctx context.Context, token *oauth2.Token, formID string) (*forms.Form, error)
}

type GoogleSource struct {
	config *oauth2.Config
}

func NewGoogleSource(clientID, clientSecret, redirectURL string) *GoogleSource {
	return &GoogleSource{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				forms.FormsBodyReadonlyScope,
				drive.DriveMetadataReadonlyScope,
			},
		},
	}
}

func (g *GoogleSource) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleSource) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("error exchanging authorization code: %w", err)
	}
	return token, nil
}

func (g *GoogleSource) ListForms(ctx context.Context, token *oauth2.Token, query string) ([]FormFile, error) {
	service, err := drive.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("error creating drive service: %w", err)
	}

	q := fmt.Sprintf("mimeType='%s' and trashed=false", FormMimeType)
	if query = strings.TrimSpace(query); query != "" {
		q += fmt.Sprintf(" and name contains '%s'", escapeQuery(query))
	}

	result, err := service.Files.List().
		Q(q).
		Fields("files(id,name,modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(50).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error listing forms: %w", err)
	}

	files := make([]FormFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, FormFile{ID: f.Id, Name: f.Name, ModifiedTime: f.ModifiedTime})
	}
	return files, nil
}

func (g *GoogleSource) GetForm(ctx context.Context, token *oauth2.Token, formID string) (*forms.Form, error) {
	service, err := forms.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("error creating forms service: %w", err)
	}

	form, err := service.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error getting form %s: %w", formID, err)
	}
	return form, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
