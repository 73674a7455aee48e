package cart

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

var (
	ErrCustomTextRequired = errors.New("custom text is required for flocage")
	ErrUnknownOption      = errors.New("unknown customization option")
	ErrUnknownVariant     = errors.New("unknown product variant")
)

// ValidateSelection rejects a flocage option picked without the text to print.
func ValidateSelection(options []models.Option, customText string) error {
	for _, opt := range options {
		if opt.Type == models.OptionTypeFlocage && strings.TrimSpace(customText) == "" {
			return ErrCustomTextRequired
		}
	}

	return nil
}

// ResolveOptions maps option names to the product's priced options. Prices
// always come from the product, never from the caller.
func ResolveOptions(product models.Product, names []string) ([]models.Option, error) {
	resolved := make([]models.Option, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}

		opt, ok := product.FindOption(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}

		seen[name] = struct{}{}
		resolved = append(resolved, opt)
	}

	return resolved, nil
}

// ValidateVariant checks size and color against what the product offers.
// An empty choice is always accepted.
func ValidateVariant(product models.Product, size, color string) error {
	if size != "" && len(product.Sizes) > 0 && !slices.Contains(product.Sizes, size) {
		return fmt.Errorf("%w: size %q", ErrUnknownVariant, size)
	}

	if color != "" && len(product.Colors) > 0 && !slices.Contains(product.Colors, color) {
		return fmt.Errorf("%w: color %q", ErrUnknownVariant, color)
	}

	return nil
}

// lineKey identifies lines that merge on add. Option order does not matter.
func lineKey(productID, size, color, customText string, options []models.Option) string {
	names := make([]string, 0, len(options))
	for _, opt := range options {
		names = append(names, opt.Name)
	}
	sort.Strings(names)

	return strings.Join([]string{productID, size, color, customText, strings.Join(names, "\x1f")}, "\x1e")
}

// dedupeOptions keeps the first occurrence of each option name.
func dedupeOptions(options []models.Option) []models.Option {
	out := make([]models.Option, 0, len(options))
	seen := make(map[string]struct{}, len(options))

	for _, opt := range options {
		if _, ok := seen[opt.Name]; ok {
			continue
		}
		seen[opt.Name] = struct{}{}
		out = append(out, opt)
	}

	return out
}
