package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

const callbackPath = "/oauth2/callback"

// ErrMissingCredentials is returned when the OAuth client secret file is absent.
var ErrMissingCredentials = errors.New("credentials file does not exist")

var errStateMismatch = errors.New("oauth state mismatch")

var scopes = []string{drive.DriveReadonlyScope, sheets.SpreadsheetsReadonlyScope}

// Authorizer returns an HTTP client authorized for the Drive and Sheets APIs.
type Authorizer interface {
	Client(ctx context.Context) (*http.Client, error)
}

// Auth authorizes with an installed-app OAuth client. Tokens are cached in
// TokenFile; without one the user is sent through the consent screen and
// the code is collected on a loopback address.
type Auth struct {
	CredentialsFile string
	TokenFile       string
	Out             io.Writer
	Logger          zerolog.Logger
}

// Client uses the cached token or requests a new one.
func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	data, err := os.ReadFile(a.CredentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: '%s'. Enable the API and save the '%s' file here. https://console.developers.google.com/flows/enableapi?apiid=drive",
			ErrMissingCredentials, a.CredentialsFile, a.CredentialsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	config, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := tokenFromFile(a.TokenFile)
	if err != nil {
		a.Logger.Debug().Err(err).Str("path", a.TokenFile).Msg("No cached token")
		if tok, err = a.tokenFromWeb(ctx, config); err != nil {
			return nil, err
		}
		if err := saveToken(a.TokenFile, tok); err != nil {
			return nil, err
		}
		a.Logger.Info().Str("path", a.TokenFile).Msg("Saved credential file")
	}
	return config.Client(ctx, tok), nil
}

type callbackResult struct {
	code string
	err  error
}

// tokenFromWeb prints the consent URL and waits for Google to redirect the
// browser back to a local listener.
func (a *Auth) tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	state := uuid.NewString()
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackRouter(state, results),
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().Err(err).Msg("OAuth callback server failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	config.RedirectURL = "http://" + listener.Addr().String() + callbackPath
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(a.Out, "Go to the following link in your browser to authorize access:\n%v\n", authURL)

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := config.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
		}
		return tok, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func callbackRouter(state string, results chan<- callbackResult) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query()

		var res callbackResult
		switch {
		case query.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
		case query.Get("state") != state:
			res.err = errStateMismatch
		case query.Get("code") == "":
			res.err = errors.New("authorization code missing")
		default:
			res.code = query.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Authorization complete, you can close this window.")
		}

		select {
		case results <- res:
		default:
		}
	})
	return r
}

// tokenFromFile retrieves a Token from a given file path.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(t); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", file, err)
	}
	return t, nil
}

// saveToken stores the token with owner-only permissions.
func saveToken(file string, token *oauth2.Token) (err error) {
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("unable to cache oauth token: %w", err)
		}
	}
	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to cache oauth token: %w", cerr)
		}
	}()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	return nil
}
