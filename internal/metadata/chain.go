package metadata

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

// Chain tries each source in order and returns the first display found.
type Chain []Source

func (c Chain) FetchDisplay(ctx context.Context, owner common.Address, id model.TokenID) (model.TokenDisplay, error) {
	var errs []error
	for _, src := range c {
		d, err := src.FetchDisplay(ctx, owner, id)
		if err == nil {
			return d, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return model.TokenDisplay{}, errors.New("no metadata source configured")
	}
	return model.TokenDisplay{}, errors.Join(errs...)
}
