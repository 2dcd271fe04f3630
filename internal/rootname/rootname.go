// Package rootname finds the ENS name subnames are issued under.
package rootname

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Default is used when the mapper exposes neither a root name nor a root label.
const Default = "lilnouns.eth"

// Resolve returns the reverse-resolved name of the mapper's root node, then
// "<rootLabel>.eth", then Default. A failed read falls through to the next option.
func Resolve(ctx context.Context, r Reader) string {
	if r == nil {
		return Default
	}

	if node, err := r.RootNode(ctx); err == nil && node != (common.Hash{}) {
		if name, err := r.NameOfNode(ctx, node); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}

	if label, err := r.RootLabel(ctx); err == nil {
		if label = strings.TrimSpace(label); label != "" {
			return label + ".eth"
		}
	}

	return Default
}
