package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/civictechlab/contrib-api/internal/domain"
)

// Profile is the verified identity returned by the provider.
type Profile struct {
	Iden  string
	Name  string
	Email string
}

// Provider validates a third-party login token and returns the identity it
// belongs to.
type Provider interface {
	Verify(ctx context.Context, token string) (*Profile, error)
}

// Facebook validates tokens against the Graph API.
type Facebook struct {
	BaseURL string
	HTTP    *http.Client
}

func NewFacebook(baseURL string) *Facebook {
	return &Facebook{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *Facebook) Verify(ctx context.Context, token string) (*Profile, error) {
	u := f.BaseURL + "/me?fields=id,name,email&access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: graph status %d", domain.ErrExternalAuth, resp.StatusCode)
	}
	var body struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode graph response: %v", domain.ErrExternalAuth, err)
	}
	if body.ID == "" {
		return nil, fmt.Errorf("%w: empty identity", domain.ErrExternalAuth)
	}
	return &Profile{Iden: body.ID, Name: body.Name, Email: body.Email}, nil
}
