package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/lucasbeta101/bether-backend-productos-sub000/svc/catalog"
)

// Mapper converts catalog products into feed items.
type Mapper struct {
	unit         currency.Unit
	scale        int
	language     string
	country      string
	linkTemplate string
	categories   CategoryMap
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithLinkTemplate sets the product page URL; "{id}" is replaced with the
// product id.
func WithLinkTemplate(tpl string) MapperOption {
	return func(m *Mapper) { m.linkTemplate = tpl }
}

// WithCategoryMap sets the catalog category to Google product category map.
func WithCategoryMap(cm CategoryMap) MapperOption {
	return func(m *Mapper) { m.categories = cm }
}

// NewMapper validates the currency, language and country codes.
func NewMapper(currencyCode, lang, country string, opts ...MapperOption) (*Mapper, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("currency %q: %w", currencyCode, err))
	}
	base, err := language.ParseBase(lang)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("content language %q: %w", lang, err))
	}
	region, err := language.ParseRegion(country)
	if err != nil || !region.IsCountry() {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("target country %q is not a country code", country))
	}

	scale, _ := currency.Standard.Rounding(unit)
	m := &Mapper{
		unit:     unit,
		scale:    scale,
		language: base.String(),
		country:  region.String(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Map converts one product.
func (m *Mapper) Map(p catalog.Product) FeedItem {
	item := FeedItem{
		OfferID:         p.ID,
		Title:           p.Name,
		Description:     p.Description,
		Price:           Price{Value: m.FormatPrice(p.Price), Currency: m.unit.String()},
		Availability:    Availability(p.Stock),
		Condition:       ConditionNew,
		Channel:         ChannelOnline,
		ContentLanguage: m.language,
		TargetCountry:   m.country,
	}
	if m.linkTemplate != "" {
		item.Link = strings.ReplaceAll(m.linkTemplate, "{id}", p.ID)
	}
	if len(p.Images) > 0 {
		item.ImageLink = p.Images[0]
		if len(p.Images) > 1 {
			item.AdditionalImageLinks = append([]string(nil), p.Images[1:]...)
		}
	}
	if p.Category != "" {
		item.ProductTypes = []string{p.Category}
		item.GoogleProductCategory = m.categories.Lookup(p.Category)
	}
	return item
}

// FormatPrice renders v with the currency's standard number of decimals.
func (m *Mapper) FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', m.scale, 64)
}

// Availability derives the feed availability from a stock quantity.
func Availability(stock int64) string {
	if stock > 0 {
		return AvailabilityInStock
	}
	return AvailabilityOutOfStock
}
