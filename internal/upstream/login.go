package upstream

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	foyer "github.com/eugener/foyer/internal"
)

// loginTimeout bounds the token exchange; credential checks are cheap and
// must not inherit the long default call budget.
const loginTimeout = 15 * time.Second

// Login exchanges credentials for an upstream access token via the OAuth2
// password grant (form-encoded username/password against /login/token).
// The returned token is opaque to the BFF; it is attached to the caller's
// session and never surfaced to the browser.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	// Route the exchange through the client's pooled transport.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/login/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tok, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", Translate(retrieveErr.Response.StatusCode, string(retrieveErr.Body))
		}
		return "", TranslateTransport(err)
	}
	if tok.AccessToken == "" {
		return "", foyer.E(foyer.KindDecode, "token exchange returned an empty access token")
	}
	return tok.AccessToken, nil
}
