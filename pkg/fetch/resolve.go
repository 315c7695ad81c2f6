package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"news-enricher/pkg/utils"
)

// Resolver determines a working absolute URL for bare host/path inputs by
// probing scheme availability with header-only requests.
type Resolver struct {
	client    *http.Client
	userAgent string
	log       *logrus.Logger
}

// NewResolver creates a Resolver using the given probe client. The client's
// timeout bounds each individual probe.
func NewResolver(client *http.Client, userAgent string, log *logrus.Logger) *Resolver {
	return &Resolver{
		client:    client,
		userAgent: userAgent,
		log:       log,
	}
}

// ResolveScheme returns a usable absolute URL for raw.
//
// Inputs that already carry an explicit scheme are trusted as-is and never
// probed. Otherwise https:// is tried first, then http://, each with a single
// HEAD request; a response status below 400 accepts the scheme. If neither
// probe succeeds the URL is unresolvable and no fetch should be attempted.
func (r *Resolver) ResolveScheme(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", utils.ErrUnresolvable)
	}

	if strings.Contains(raw, "://") {
		return raw, nil
	}

	for _, scheme := range []string{"https://", "http://"} {
		candidate := scheme + raw
		if r.probe(ctx, candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", utils.ErrUnresolvable, raw)
}

// probe issues one best-effort HEAD request; it is never retried.
func (r *Resolver) probe(ctx context.Context, candidate string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidate, nil)
	if err != nil {
		r.log.WithField("url", candidate).Debugf("Probe request creation failed: %v", err)
		return false
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.WithField("url", candidate).Debugf("Scheme probe failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		r.log.WithFields(logrus.Fields{"url": candidate, "status": resp.StatusCode}).Debug("Scheme probe rejected")
		return false
	}
	return true
}
