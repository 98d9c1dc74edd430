// Package wiki is the HTTP client for the remote wiki REST surface.
package wiki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/kbagent/internal/config"
	"github.com/hpungsan/kbagent/internal/creds"
	"github.com/hpungsan/kbagent/internal/errors"
)

// Client issues authenticated requests against the wiki REST API.
// There is no retry and no circuit breaking: every call is a single
// best-effort request whose failure surfaces to the caller.
type Client struct {
	store      *creds.Store
	apiRoot    string
	httpClient *http.Client
}

// New creates a wiki client bound to a credential store.
func New(store *creds.Store, cfg *config.Config) *Client {
	httpClient := &http.Client{}
	if cfg.HTTPTimeoutSecs > 0 {
		httpClient.Timeout = time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	}
	return &Client{
		store:      store,
		apiRoot:    cfg.WikiAPIRoot,
		httpClient: httpClient,
	}
}

// WebPrefix returns the path prefix web UI links are relative to. For the
// cloud API root "/wiki/rest/api" that is "/wiki"; for a server-style
// "/rest/api" root it is empty.
func (c *Client) WebPrefix() string {
	return strings.TrimSuffix(c.apiRoot, "/rest/api")
}

// RequestOptions override the defaults of a single request.
type RequestOptions struct {
	Method  string            // default GET
	Body    any               // string sent raw; anything else JSON-serialized
	Headers map[string]string // merged over defaults, caller wins
}

// Do issues one request against apiRoot+suffix using the stored credential.
// It fails immediately with AUTH_REQUIRED when no credential is active.
// Non-2xx responses become a REMOTE_CALL error carrying the numeric status
// and status text; the response body is not read on failure. On success the
// JSON body is returned undecoded for the typed wrappers to validate.
func (c *Client) Do(ctx context.Context, suffix string, opts RequestOptions) (json.RawMessage, error) {
	cred := c.store.Get()
	if !cred.Valid() {
		return nil, errors.NewAuthRequired()
	}
	return c.doWith(ctx, cred, suffix, opts)
}

// doWith issues a request with an explicit credential. The auth probe uses
// this to validate a candidate before anything is persisted.
func (c *Client) doWith(ctx context.Context, cred *creds.Credential, suffix string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		switch b := opts.Body.(type) {
		case string:
			body = bytes.NewBufferString(b)
		case []byte:
			body = bytes.NewBuffer(b)
		default:
			serialized, err := json.Marshal(b)
			if err != nil {
				return nil, errors.NewInternal(err)
			}
			body = bytes.NewBuffer(serialized)
		}
	}

	url := cred.URL + c.apiRoot + suffix
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(cred.Email + ":" + cred.Token))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewRemoteCall(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewRemoteStatus(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemoteCall(err)
	}
	return payload, nil
}
