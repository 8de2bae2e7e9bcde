package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/abpconv/internal/config"
)

// Source describes one named remote filter list.
type Source struct {
	// Name identifies the source and names its cache entry.
	Name string

	// URL is where the filter list is downloaded from.
	URL string

	// Output is an optional default output path used when converting
	// this source without an explicit output argument.
	Output string
}

// DefaultSources are the built-in filter sources.
// Entries in the user's configuration file shadow these on name collision.
var DefaultSources = []Source{
	{
		Name:   "easylist",
		URL:    "https://easylist.to/easylist/easylist.txt",
		Output: "easylist.json",
	},
	{
		Name:   "easyprivacy",
		URL:    "https://easylist.to/easylist/easyprivacy.txt",
		Output: "easyprivacy.json",
	},
}

// validSourceName reports whether name is usable as a cache file name.
// Source names come from the configuration file, so a name like "../foo"
// must never reach the cache and escape its directory.
func validSourceName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// ResolveSource finds the named source, consulting the configuration file
// first and the built-in sources second. It returns ErrUnknownSource when
// the name is defined in neither.
func ResolveSource(name string, file *config.File) (Source, error) {
	if !validSourceName(name) {
		return Source{}, fmt.Errorf("%w: %q", ErrInvalidSourceName, name)
	}
	if file != nil {
		if sc, ok := file.Sources[name]; ok {
			return Source{Name: name, URL: sc.URL, Output: sc.Output}, nil
		}
	}
	for _, s := range DefaultSources {
		if s.Name == name {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Sources returns every known source: built-ins plus the configuration
// file's entries, with file entries shadowing built-ins of the same name.
func Sources(file *config.File) []Source {
	merged := make([]Source, 0, len(DefaultSources))
	seen := make(map[string]struct{})

	if file != nil {
		for name, sc := range file.Sources {
			merged = append(merged, Source{Name: name, URL: sc.URL, Output: sc.Output})
			seen[name] = struct{}{}
		}
	}
	for _, s := range DefaultSources {
		if _, ok := seen[s.Name]; !ok {
			merged = append(merged, s)
		}
	}
	return merged
}

// Result records the outcome of fetching one source.
type Result struct {
	// Source is the source that was fetched.
	Source Source

	// Path is the cache file holding the filter list. Empty when Err is set
	// and no cached copy exists.
	Path string

	// FromCache reports whether the cached copy was used instead of a
	// fresh download.
	FromCache bool

	// Err is the fetch error, if any. A Result can carry both an error
	// and a path when a stale cached copy was used as a fallback.
	Err error
}

// Fetcher downloads filter lists and maintains the on-disk cache.
//
// Design decision: The fetcher never parses what it downloads. Conversion
// reads from the cache afterwards, so a partially working network still
// leaves usable state behind.
type Fetcher struct {
	// client is the HTTP client used for all downloads, optionally
	// routed through a SOCKS5 proxy.
	client *http.Client

	// cache stores the downloaded filter lists.
	cache *Cache

	// userAgent identifies abpconv to filter list servers.
	userAgent string

	// maxBodySize limits the accepted response body in bytes.
	maxBodySize int64

	// freshness is how long a cached copy is reused without fetching.
	freshness time.Duration

	// concurrency limits parallel downloads in FetchAll.
	concurrency int

	// force skips the freshness check and always downloads.
	force bool

	// logger receives fetch progress and fallback warnings.
	logger *slog.Logger
}

// New creates a Fetcher from the given configuration.
// It creates the cache directory and, when a proxy address is configured,
// validates it and builds a SOCKS5 transport.
func New(cfg *config.Config, logger *slog.Logger) (*Fetcher, error) {
	cache, err := NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	client, err := newHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	freshness := cfg.Freshness
	if cfg.ForceFetch {
		freshness = 0
	}

	return &Fetcher{
		client:      client,
		cache:       cache,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		freshness:   freshness,
		concurrency: cfg.Concurrency,
		force:       cfg.ForceFetch,
		logger:      logger,
	}, nil
}

// newHTTPClient builds the HTTP client, routed through a SOCKS5 proxy
// when proxyAddress is non-empty.
//
// Design decision: We validate the proxy address format up front but do
// not verify the proxy is reachable. That keeps construction free of
// network operations and surfaces connectivity problems as fetch errors.
func newHTTPClient(proxyAddress string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}
	if proxyAddress == "" {
		return client, nil
	}

	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// We use nil for auth because SOCKS5 proxies used for list fetching
	// typically don't require it.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	client.Transport = &http.Transport{
		DialContext: func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
		// Filter lists are large plain-text files fetched one at a time,
		// so a small idle pool is enough.
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	return client, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
// We use a simple check rather than a full URL parser because the format
// is very specific (no scheme, no path, just host and port).
func isValidProxyAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}

	host := parts[0]
	port := parts[1]
	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}

// Fetch downloads one source, or reuses the cached copy while it is fresh.
// On download failure it falls back to a stale cached copy when one
// exists; the Result then carries both the error and the cache path.
func (f *Fetcher) Fetch(ctx context.Context, source Source) Result {
	result := Result{Source: source}

	if !validSourceName(source.Name) {
		result.Err = fmt.Errorf("%w: %q", ErrInvalidSourceName, source.Name)
		return result
	}

	if !f.force && f.cache.Fresh(source.Name, f.freshness) {
		f.logger.Debug("using fresh cached copy", "source", source.Name)
		result.Path = f.cache.Path(source.Name)
		result.FromCache = true
		return result
	}

	f.logger.Info("fetching filter list", "source", source.Name, "url", source.URL)

	data, err := f.download(ctx, source.URL)
	if err != nil {
		result.Err = err
		// Stale cached copies beat no filter list at all.
		if _, loadErr := f.cache.Load(source.Name); loadErr == nil {
			f.logger.Warn("fetch failed, using stale cached copy",
				"source", source.Name,
				"error", err,
			)
			result.Path = f.cache.Path(source.Name)
			result.FromCache = true
		}
		return result
	}

	if err := f.cache.Store(source.Name, data); err != nil {
		result.Err = err
		return result
	}
	result.Path = f.cache.Path(source.Name)
	return result
}

// FetchAll downloads the given sources concurrently, respecting the
// configured concurrency limit and context cancellation. Per-source
// failures are recorded in the Results rather than aborting the batch.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) ([]Result, error) {
	results := make([]Result, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = f.Fetch(ctx, source)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// download performs a single GET request and returns the body.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Response body close errors are not actionable

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
	}

	// Read one byte past the limit to distinguish "exactly at the limit"
	// from "over the limit".
	limit := f.maxBodySize
	if limit <= 0 {
		limit = config.DefaultMaxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s", ErrBodyTooLarge, url)
	}
	return data, nil
}
