// Package metadata fetches best-effort display data for tokens.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxDocumentSize     = 1 << 20
)

type document struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// TokenURIConfig configures a TokenURIFetcher. A zero RPS disables rate limiting.
type TokenURIConfig struct {
	Gateway string
	Timeout time.Duration
	RPS     int
}

// TokenURIFetcher reads tokenURI from the chain and loads the metadata document behind it.
type TokenURIFetcher struct {
	reader  URIReader
	client  *http.Client
	gateway string
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewTokenURIFetcher creates a TokenURIFetcher with gateway, timeout and rate defaults filled in.
func NewTokenURIFetcher(reader URIReader, cfg TokenURIConfig, logger *zap.Logger) (*TokenURIFetcher, error) {
	if reader == nil {
		return nil, errors.New("metadata uri reader is required")
	}
	if cfg.Gateway == "" {
		cfg.Gateway = DefaultGateway
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	return &TokenURIFetcher{
		reader:  reader,
		client:  &http.Client{Timeout: cfg.Timeout},
		gateway: cfg.Gateway,
		limiter: limiter,
		logger:  logger.Named("tokenuri"),
	}, nil
}

func (f *TokenURIFetcher) FetchDisplay(ctx context.Context, _ common.Address, id model.TokenID) (model.TokenDisplay, error) {
	uri, err := f.reader.TokenURI(ctx, id)
	if err != nil {
		return model.TokenDisplay{}, fmt.Errorf("read token uri: %w", err)
	}
	if uri == "" {
		return model.TokenDisplay{}, fmt.Errorf("token %s has no uri", id)
	}

	doc, err := f.load(ctx, uri)
	if err != nil {
		return model.TokenDisplay{}, err
	}
	return f.display(doc, id), nil
}

func (f *TokenURIFetcher) load(ctx context.Context, uri string) (document, error) {
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(strings.ToLower(uri), "data:") {
		raw, err = decodeDataURI(uri)
	} else {
		raw, err = f.get(ctx, ResolveURI(uri, f.gateway))
	}
	if err != nil {
		return document{}, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("decode metadata: %w", err)
	}
	return doc, nil
}

func (f *TokenURIFetcher) get(ctx context.Context, target string) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for metadata rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("close metadata body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch metadata: http %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return raw, nil
}

// wait takes a limiter slot or gives up when ctx ends. An abandoned Take still
// consumes its slot once it returns.
func (f *TokenURIFetcher) wait(ctx context.Context) error {
	taken := make(chan struct{})
	go func() {
		f.limiter.Take()
		close(taken)
	}()

	select {
	case <-taken:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *TokenURIFetcher) display(doc document, id model.TokenID) model.TokenDisplay {
	d := model.PlaceholderDisplay(id)
	if doc.Name != "" {
		d.Name = doc.Name
	}
	if doc.Image != "" {
		d.Image = ResolveURI(doc.Image, f.gateway)
		d.Placeholder = false
	}
	return d
}
