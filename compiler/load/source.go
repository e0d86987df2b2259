package load

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"
)

// Source yields a parsed schema. Loading happens once per generation run,
// before any unit is written.
type Source interface {
	Load(ctx context.Context) (*Schema, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(context.Context) (*Schema, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (*Schema, error) { return f(ctx) }

// FetchError is returned when the metadata endpoint answers with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("odatagen: fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// URLSource fetches the $metadata document of an OData service.
type URLSource struct {
	// ServiceURL is the service root. "$metadata" is appended to its path.
	ServiceURL string
	client     *http.Client
	insecure   bool
	timeout    time.Duration
}

// FetchOption configures a URLSource.
type FetchOption func(*URLSource)

// WithInsecureTLS disables verification of the server certificate chain.
func WithInsecureTLS(insecure bool) FetchOption {
	return func(s *URLSource) {
		s.insecure = insecure
	}
}

// WithHTTPClient sets the client used for the request. It takes precedence
// over WithInsecureTLS and WithTimeout.
func WithHTTPClient(c *http.Client) FetchOption {
	return func(s *URLSource) {
		s.client = c
	}
}

// WithTimeout bounds the whole request. Zero means no timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(s *URLSource) {
		s.timeout = d
	}
}

// NewURLSource returns a Source reading <serviceURL>/$metadata.
func NewURLSource(serviceURL string, opts ...FetchOption) *URLSource {
	s := &URLSource{ServiceURL: serviceURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MetadataURL joins "$metadata" to the path of the service root. Query and
// fragment are dropped.
func MetadataURL(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("odatagen: invalid service url %q: %w", serviceURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("odatagen: invalid service url %q: missing scheme or host", serviceURL)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	return (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, Path: path.Join(p, "$metadata")}).String(), nil
}

// Load implements Source.
func (s *URLSource) Load(ctx context.Context) (*Schema, error) {
	metadataURL, err := MetadataURL(s.ServiceURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("odatagen: fetch %s: %w", metadataURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: metadataURL, StatusCode: resp.StatusCode}
	}
	return Parse(resp.Body)
}

func (s *URLSource) httpClient() *http.Client {
	if s.client != nil {
		return s.client
	}
	c := &http.Client{Timeout: s.timeout}
	if s.insecure {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		//nolint:gosec // explicitly requested by the caller
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.Transport = tr
	}
	return c
}

// FileSource reads a metadata document from the local file system.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(context.Context) (*Schema, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("odatagen: open metadata: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
