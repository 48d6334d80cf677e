package feed

// FeedItem is a product in the Content API product schema.
type FeedItem struct {
	OfferID               string   `json:"offerId"`
	Title                 string   `json:"title"`
	Description           string   `json:"description,omitempty"`
	Link                  string   `json:"link,omitempty"`
	ImageLink             string   `json:"imageLink,omitempty"`
	AdditionalImageLinks  []string `json:"additionalImageLinks,omitempty"`
	Price                 Price    `json:"price"`
	Availability          string   `json:"availability"`
	Condition             string   `json:"condition"`
	ProductTypes          []string `json:"productTypes,omitempty"`
	GoogleProductCategory string   `json:"googleProductCategory,omitempty"`
	Channel               string   `json:"channel"`
	ContentLanguage       string   `json:"contentLanguage"`
	TargetCountry         string   `json:"targetCountry"`
}

// Price is a decimal amount formatted as a string with its ISO 4217 code.
type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"

	ConditionNew  = "new"
	ChannelOnline = "online"
)

// ItemResult is the outcome for one submitted item.
type ItemResult struct {
	ID     string
	OK     bool
	Reason string
}

// ItemFailure identifies a rejected item.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Report summarises a push.
type Report struct {
	Succeeded int           `json:"succeeded"`
	Failed    []ItemFailure `json:"failed"`
}
