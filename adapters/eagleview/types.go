package eagleview

// OrderRequest is the caller-facing shape for placing a measurement order.
type OrderRequest struct {
	Address1   string         `json:"address1"`
	City       string         `json:"city"`
	State      string         `json:"state"`
	PostalCode string         `json:"postal_code"`
	Country    string         `json:"country"`
	Options    map[string]any `json:"options"`
}

// orderPayload is the provider's wire shape for a GutterReport order.
type orderPayload struct {
	OrderReference string         `json:"orderReference"`
	Location       orderLocation  `json:"location"`
	Products       []orderProduct `json:"products"`
	Metadata       orderMetadata  `json:"metadata"`
}

type orderLocation struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type orderProduct struct {
	Type string `json:"type"`
}

type orderMetadata struct {
	Options map[string]any `json:"options"`
}

// tokenResponse is the provider's OAuth2 token grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
