package adapters

import (
	"context"
	"strings"

	"drifter/internal/feature/symbollist/domain/entity"
	"drifter/internal/feature/symbollist/usecase"
)

// symbolStatic serves a fixed coin list from configuration when no database is configured.
type symbolStatic struct {
	symbols []entity.Symbol
}

var _ usecase.SymbolRepository = (*symbolStatic)(nil)

// NewStaticSymbolRepository creates a SymbolRepository over codes.
// Blank and repeated codes are dropped; the order of first appearance is kept.
func NewStaticSymbolRepository(venue string, codes []string) *symbolStatic {
	seen := make(map[string]struct{}, len(codes))
	symbols := make([]entity.Symbol, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		symbols = append(symbols, entity.Symbol{
			Code:     c,
			Name:     c,
			Venue:    venue,
			IsActive: true,
			SortKey:  len(symbols),
		})
	}
	return &symbolStatic{symbols: symbols}
}

func (r *symbolStatic) ListActive(context.Context) ([]entity.Symbol, error) {
	out := make([]entity.Symbol, len(r.symbols))
	copy(out, r.symbols)
	return out, nil
}

func (r *symbolStatic) ListActiveCodes(context.Context) ([]string, error) {
	out := make([]string, 0, len(r.symbols))
	for _, s := range r.symbols {
		out = append(out, s.Code)
	}
	return out, nil
}
