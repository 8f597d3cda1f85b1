package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/gateway/googletasks"
	"todo/internal/output"
	"todo/internal/session"
	"todo/internal/tasklist"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
// The rest backend stores a bearer token given with --token or on stdin.
// The google backend runs the OAuth flow in a browser.
type LoginCmd struct {
	token string
}

// SetToken sets the token flag (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

func (c *LoginCmd) Name() string          { return "login" }
func (c *LoginCmd) Aliases() []string     { return nil }
func (c *LoginCmd) Synopsis() string      { return "Store credentials for the backend" }
func (c *LoginCmd) Usage() string         { return "todo login [common flags] [--token <t>]" }
func (c *LoginCmd) NeedsController() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, ctrl *tasklist.Controller, args []string, in io.Reader, out, errOut io.Writer) int {
	store := session.NewStore(cfg.SessionPath())
	if cfg.Settings.Backend == config.BackendGoogle {
		if c.token != "" {
			output.Error(errOut, "--token is only supported by the rest backend")
			return exitcode.UserError
		}
		return c.loginGoogle(ctx, cfg, store, out, errOut)
	}
	return c.loginToken(cfg, store, in, out, errOut)
}

// loginToken stores a pasted bearer token.
func (c *LoginCmd) loginToken(cfg *config.Config, store *session.Store, in io.Reader, out, errOut io.Writer) int {
	raw := c.token
	if raw == "" && in != nil {
		fmt.Fprint(errOut, "Paste your token: ")
		raw = readLine(in)
	}
	tok := session.Bearer(raw)
	if tok.AccessToken == "" {
		output.Error(errOut, "token required")
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		output.Errorf(errOut, "failed to create config directory: %v", err)
		return exitcode.AuthError
	}
	if err := store.Save(tok); err != nil {
		output.Errorf(errOut, "failed to save session: %v", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *LoginCmd) loginGoogle(ctx context.Context, cfg *config.Config, store *session.Store, out, errOut io.Writer) int {
	// Check if oauth_client.json exists
	if !cfg.HasOAuthClient() {
		output.Errorf(errOut, "oauth_client.json not found in %s\n", cfg.Dir)
		fmt.Fprintln(errOut, "To authenticate with Google Tasks, you need OAuth credentials:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
		fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
		fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
		fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
		fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
		fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
		fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
		fmt.Fprintln(errOut, "   - Download the JSON file")
		fmt.Fprintln(errOut, "5. Save it as:")
		fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Then run 'todo login' again.")
		return exitcode.AuthError
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg.OAuthClientPath())
	if err != nil {
		output.Errorf(errOut, "%v", err)
		return exitcode.AuthError
	}

	// Check if already logged in (token exists and is valid)
	if isTokenValid(ctx, oauthConfig, store) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	// Find available port
	port, listener, err := findAvailablePort()
	if err != nil {
		output.Error(errOut, "could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	// PKCE
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		output.Errorf(errOut, "%v", err)
		return exitcode.AuthError
	case <-time.After(oauthCallbackTimeout):
		output.Error(errOut, "oauth callback timed out")
		return exitcode.AuthError
	case <-ctx.Done():
		output.Error(errOut, "cancelled")
		return exitcode.AuthError
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		output.Errorf(errOut, "failed to exchange code for token: %v", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		output.Errorf(errOut, "failed to create config directory: %v", err)
		return exitcode.AuthError
	}
	if err := store.Save(token); err != nil {
		output.Errorf(errOut, "failed to save session: %v", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

// isTokenValid reports whether the stored token has a refresh token that
// the OAuth server still accepts.
func isTokenValid(ctx context.Context, oauthConfig *oauth2.Config, store *session.Store) bool {
	tok, err := store.Load()
	if err != nil || tok.RefreshToken == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Refreshes if needed
	_, err = oauthConfig.TokenSource(ctx, tok).Token()
	return err == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readLine reads one trimmed line from r.
func readLine(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(line)
}
