package auction_backend_client

import (
	"github.com/mcdev12/tplauction/go/clients"
)

// AuctionBackendClient talks to the TPL auction REST backend. It owns no
// state beyond the base URL; every call is a fresh round trip.
type AuctionBackendClient struct {
	*clients.BaseClient
}

func NewAuctionBackendClient(baseURL string) *AuctionBackendClient {
	if baseURL == "" {
		baseURL = BaseURL
	}

	client := &AuctionBackendClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(AcceptHeader, JSONContentType)

	return client
}
