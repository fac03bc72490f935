package nuget

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/nugetviz/pkg/buildinfo"
	"github.com/matzehuels/nugetviz/pkg/cache"
	nverrors "github.com/matzehuels/nugetviz/pkg/errors"
	"github.com/matzehuels/nugetviz/pkg/feed"
	"github.com/matzehuels/nugetviz/pkg/httputil"
	"github.com/matzehuels/nugetviz/pkg/integrations"
)

// DefaultURL is the nuget.org v3 service index.
const DefaultURL = "https://api.nuget.org/v3/index.json"

// DefaultTTL is how long feed responses are cached.
const DefaultTTL = 24 * time.Hour

// Registration resource types in order of preference.
var registrationTypes = []string{
	"RegistrationsBaseUrl/3.6.0",
	"RegistrationsBaseUrl/3.4.0",
	"RegistrationsBaseUrl/3.0.0-rc",
	"RegistrationsBaseUrl/3.0.0-beta",
	"RegistrationsBaseUrl",
}

// ErrNoRegistrations is returned when the service index advertises no
// registration resource.
var ErrNoRegistrations = errors.New("service index has no RegistrationsBaseUrl resource")

// Options configures a [Client].
type Options struct {
	URL        string           // Service index URL; defaults to DefaultURL
	Username   string           // Basic auth user for private feeds
	Password   string           // Basic auth password
	Cache      cache.Cache      // Response cache; nil disables caching
	TTL        time.Duration    // Cache TTL; defaults to DefaultTTL
	Refresh    bool             // Skip cache reads (results are still stored)
	HTTPClient *http.Client     // Overrides the default HTTP client
	Retry      *httputil.Policy // Overrides the default retry policy
}

// Client is a NuGet v3 feed. It implements [feed.Feed] and is safe for
// concurrent use.
type Client struct {
	*integrations.Client
	indexURL string
	refresh  bool

	mu      sync.Mutex
	regBase string
}

// NewClient creates a client for the feed described by opts.
func NewClient(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	ic := integrations.NewClient(opts.Cache, "nuget:"+integrations.Namespace(opts.URL), opts.TTL,
		map[string]string{"Accept": "application/json", "User-Agent": buildinfo.UserAgent()})
	ic.SetBasicAuth(opts.Username, opts.Password)
	if opts.HTTPClient != nil {
		ic.SetHTTPClient(opts.HTTPClient)
	}
	if opts.Retry != nil {
		ic.SetRetryPolicy(*opts.Retry)
	}

	return &Client{
		Client:   ic,
		indexURL: opts.URL,
		refresh:  opts.Refresh,
	}
}

// Lookup returns the latest listed non-prerelease version of id and its
// dependencies. It returns [feed.ErrNotFound] when the feed has no such
// package or only prerelease/unlisted versions of it.
func (c *Client) Lookup(ctx context.Context, id string) (*feed.Record, error) {
	norm := integrations.NormalizeID(id)
	if norm == "" {
		return nil, fmt.Errorf("%w: empty id", feed.ErrNotFound)
	}

	var rec feed.Record
	err := c.Cached(ctx, "record:"+norm, c.refresh, &rec, func() error {
		return c.fetchRecord(ctx, norm, &rec)
	})
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", feed.ErrNotFound, id)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, nverrors.Wrap(nverrors.ErrCodeFeedLookup, classify(err), "lookup %s", id)
	}
	return &rec, nil
}

// RegistrationsBaseURL resolves the registration resource from the service
// index. The result is memoised for the lifetime of the client.
func (c *Client) RegistrationsBaseURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regBase != "" {
		return c.regBase, nil
	}

	var base baseURL
	err := c.Cached(ctx, "index:"+c.indexURL, c.refresh, &base, func() error {
		var idx serviceIndex
		if err := c.Get(ctx, c.indexURL, &idx); err != nil {
			return err
		}
		u, ok := pickRegistrations(idx.Resources)
		if !ok {
			return ErrNoRegistrations
		}
		base.URL = u
		return nil
	})
	if errors.Is(err, integrations.ErrNotFound) {
		// A missing index must not read as a missing package.
		return "", fmt.Errorf("service index %s: %w", c.indexURL, ErrNoRegistrations)
	}
	if err != nil {
		return "", fmt.Errorf("service index %s: %w", c.indexURL, err)
	}
	c.regBase = strings.TrimSuffix(base.URL, "/") + "/"
	return c.regBase, nil
}

func (c *Client) fetchRecord(ctx context.Context, id string, rec *feed.Record) error {
	base, err := c.RegistrationsBaseURL(ctx)
	if err != nil {
		return err
	}

	var idx registrationIndex
	if err := c.Get(ctx, base+integrations.URLEncode(id)+"/index.json", &idx); err != nil {
		return err
	}

	var latest *catalogEntry
	for i := range idx.Items {
		page := &idx.Items[i]
		if page.Items == nil && page.ID != "" {
			var full registrationPage
			if err := c.Get(ctx, page.ID, &full); err != nil {
				return err
			}
			page.Items = full.Items
		}
		for j := range page.Items {
			e := &page.Items[j].CatalogEntry
			if e.isListed() && !isPrerelease(e.Version) {
				latest = e
			}
		}
	}
	if latest == nil {
		return integrations.ErrNotFound
	}

	*rec = feed.Record{
		ID:            latest.ID,
		LatestVersion: latest.Version,
		Dependencies:  flattenDependencies(latest.DependencyGroups),
	}
	return nil
}

// classify tags transport failures with NETWORK_ERROR so callers can tell
// them apart from feeds answering with bad data or refusing credentials.
func classify(err error) error {
	if errors.Is(err, integrations.ErrNetwork) {
		return nverrors.Wrap(nverrors.ErrCodeNetwork, err, "feed unreachable")
	}
	return err
}

func pickRegistrations(resources []resource) (string, bool) {
	for _, t := range registrationTypes {
		for _, r := range resources {
			if r.Type == t && r.ID != "" {
				return r.ID, true
			}
		}
	}
	return "", false
}

// isPrerelease reports whether v has a SemVer prerelease label. Build
// metadata after '+' is ignored.
func isPrerelease(v string) bool {
	v, _, _ = strings.Cut(v, "+")
	return strings.Contains(v, "-")
}

// flattenDependencies merges all target framework groups into unique
// "id:version" pairs in first-seen order.
func flattenDependencies(groups []dependencyGroup) []string {
	var out []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, d := range g.Dependencies {
			if d.ID == "" {
				continue
			}
			pair := d.ID + ":" + lowerBound(d.Range)
			if !seen[pair] {
				seen[pair] = true
				out = append(out, pair)
			}
		}
	}
	return out
}

// lowerBound reduces a NuGet version range to its inclusive minimum version.
//
//	"1.0"         -> "1.0"
//	"[1.0, )"     -> "1.0"
//	"[1.0, 2.0)"  -> "1.0"
//	"[1.0]"       -> "1.0"
//	"(1.0, )"     -> ""    (exclusive)
//	"(, 2.0]"     -> ""
//	""            -> ""
func lowerBound(r string) string {
	r = strings.TrimSpace(r)
	if r == "" {
		return ""
	}
	switch r[0] {
	case '(':
		return ""
	case '[':
		r = strings.TrimPrefix(r, "[")
		r = strings.TrimSuffix(strings.TrimSuffix(r, "]"), ")")
		lo, _, _ := strings.Cut(r, ",")
		return strings.TrimSpace(lo)
	}
	return r
}

var _ feed.Feed = (*Client)(nil)
