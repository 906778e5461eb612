package formimport

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

const TokenHeader = "X-Google-Access-Token"

var ErrMissingToken = errors.New("google access token is required")

// Importer fronts a Source with an extraction cache scoped to the caller's token.
type Importer struct {
	source Source
	cache  *cache.Cache
}

func NewImporter(source Source, ttl time.Duration) *Importer {
	return &Importer{source: source, cache: cache.New(ttl, 2*ttl)}
}

// TokenFromRequest reads the user's Google access token from TokenHeader.
func TokenFromRequest(request *http.Request) (*oauth2.Token, error) {
	value := strings.TrimSpace(request.Header.Get(TokenHeader))
	value = strings.TrimSpace(strings.TrimPrefix(value, "Bearer "))
	if value == "" {
		return nil, ErrMissingToken
	}
	return &oauth2.Token{AccessToken: value, TokenType: "Bearer"}, nil
}

func (i *Importer) AuthURL(state string) string {
	return i.source.AuthURL(state)
}

func (i *Importer) Authenticate(ctx context.Context, code string) (*oauth2.Token, error) {
	return i.source.Exchange(ctx, code)
}

func (i *Importer) ListForms(ctx context.Context, token *oauth2.Token, query string) ([]FormFile, error) {
	return i.source.ListForms(ctx, token, query)
}

// PickForm returns the most recently modified form matching query, or nil when nothing matches.
func (i *Importer) PickForm(ctx context.Context, token *oauth2.Token, query string) (*string, error) {
	files, err := i.source.ListForms(ctx, token, query)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	id := files[0].ID
	return &id, nil
}

func (i *Importer) ExtractForm(ctx context.Context, token *oauth2.Token, formID string) (Extraction, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return Extraction{}, fmt.Errorf("%w: form id is required", custom_errors.ErrNotFound)
	}

	if token == nil || token.AccessToken == "" {
		return Extraction{}, ErrMissingToken
	}

	key := cacheKey(token, formID)
	if cached, ok := i.cache.Get(key); ok {
		return cached.(Extraction), nil
	}

	form, err := i.source.GetForm(ctx, token, formID)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusForbidden) {
			return Extraction{}, fmt.Errorf("%w: %v", custom_errors.ErrNotFound, err)
		}
		return Extraction{}, err
	}

	extraction := Extract(form)
	i.cache.Set(key, extraction, cache.DefaultExpiration)

	logger.WithFields(map[string]any{
		"form_id":   formID,
		"questions": extraction.QuestionCount,
		"keywords":  len(extraction.DetectedPersonalDataKeywords),
	}).Info("form extracted")

	return extraction, nil
}

// cacheKey never holds the raw access token.
func cacheKey(token *oauth2.Token, formID string) string {
	sum := sha256.Sum256([]byte(token.AccessToken))
	return hex.EncodeToString(sum[:]) + ":" + formID
}
