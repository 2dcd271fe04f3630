package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSubgraphTTL = time.Minute

	ownedTokensQuery = `query Tokens($owner: String!) {
  tokens(where: { owner: $owner }) {
    id
    tokenId
    image
    name
  }
}`
)

var errTokenNotIndexed = errors.New("token not indexed")

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type tokensResponse struct {
	Data *struct {
		Tokens []struct {
			ID      string  `json:"id"`
			TokenID string  `json:"tokenId"`
			Image   *string `json:"image"`
			Name    *string `json:"name"`
		} `json:"tokens"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type ownerTokens struct {
	displays map[model.TokenID]model.TokenDisplay
	expires  time.Time
}

// Subgraph looks displays up in an indexer. One query per owner serves every
// token of a resolve pass; the indexer is never used to count tokens.
type Subgraph struct {
	url    string
	client *http.Client
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	// inflight collapses concurrent cache misses for one owner into a single query.
	inflight singleflight.Group

	mu    sync.Mutex
	cache map[common.Address]ownerTokens
}

// NewSubgraph creates a Subgraph client for the GraphQL endpoint at url.
func NewSubgraph(url string, timeout time.Duration, logger *zap.Logger) (*Subgraph, error) {
	if url == "" {
		return nil, errors.New("subgraph url is required")
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Subgraph{
		url:    url,
		client: &http.Client{Timeout: timeout},
		ttl:    defaultSubgraphTTL,
		now:    time.Now,
		logger: logger.Named("subgraph"),
		cache:  make(map[common.Address]ownerTokens),
	}, nil
}

func (s *Subgraph) FetchDisplay(ctx context.Context, owner common.Address, id model.TokenID) (model.TokenDisplay, error) {
	displays, err := s.owned(ctx, owner)
	if err != nil {
		return model.TokenDisplay{}, err
	}
	d, ok := displays[id]
	if !ok {
		return model.TokenDisplay{}, fmt.Errorf("token %s: %w", id, errTokenNotIndexed)
	}
	return d, nil
}

func (s *Subgraph) owned(ctx context.Context, owner common.Address) (map[model.TokenID]model.TokenDisplay, error) {
	s.mu.Lock()
	entry, ok := s.cache[owner]
	s.mu.Unlock()
	if ok && s.now().Before(entry.expires) {
		return entry.displays, nil
	}

	v, err, _ := s.inflight.Do(owner.Hex(), func() (any, error) {
		displays, err := s.query(ctx, owner)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[owner] = ownerTokens{displays: displays, expires: s.now().Add(s.ttl)}
		s.mu.Unlock()
		return displays, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[model.TokenID]model.TokenDisplay), nil
}

func (s *Subgraph) query(ctx context.Context, owner common.Address) (map[model.TokenID]model.TokenDisplay, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     ownedTokensQuery,
		Variables: map[string]any{"owner": strings.ToLower(owner.Hex())},
	})
	if err != nil {
		return nil, fmt.Errorf("encode subgraph query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build subgraph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query subgraph: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Debug("close subgraph body", zap.Error(cerr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query subgraph: http %d", resp.StatusCode)
	}

	var out tokensResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode subgraph response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("subgraph: %s", out.Errors[0].Message)
	}
	if out.Data == nil {
		return nil, errors.New("subgraph: empty response")
	}

	displays := make(map[model.TokenID]model.TokenDisplay, len(out.Data.Tokens))
	for _, t := range out.Data.Tokens {
		id, err := model.ParseTokenID(t.TokenID)
		if err != nil {
			s.logger.Debug("skip subgraph token", zap.String("id", t.ID), zap.Error(err))
			continue
		}
		d := model.PlaceholderDisplay(id)
		if t.Name != nil && *t.Name != "" {
			d.Name = *t.Name
		}
		if t.Image != nil && *t.Image != "" {
			d.Image = *t.Image
			d.Placeholder = false
		}
		displays[id] = d
	}
	return displays, nil
}
