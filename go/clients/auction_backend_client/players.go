package auction_backend_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/models"
)

type PlayerSummariesResponse struct {
	Success      bool                   `json:"success"`
	TotalPlayers int                    `json:"totalPlayers"`
	Data         []models.PlayerSummary `json:"data"`
}

type PlayerResponse struct {
	Data models.Player `json:"data"`
}

// AddPlayer submits a multipart player creation. fields are sent in order;
// picture is optional.
func (c *AuctionBackendClient) AddPlayer(ctx context.Context, fields []clients.FormField, picture *clients.FormFile) error {
	var files []clients.FormFile
	if picture != nil {
		file := *picture
		file.FieldName = PictureField
		files = append(files, file)
	}

	if _, err := c.PostMultipart(ctx, AddPlayerEndpoint, fields, files...); err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}
	return nil
}

// ListPlayerSummaries fetches the full player listing. A response with
// success=false is reported as an error.
func (c *AuctionBackendClient) ListPlayerSummaries(ctx context.Context) (*PlayerSummariesResponse, error) {
	body, err := c.Get(ctx, PlayerSummariesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get player summaries: %w", err)
	}

	var response PlayerSummariesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	if !response.Success {
		return nil, fmt.Errorf("player summaries returned success=false")
	}

	return &response, nil
}

// GetPlayer fetches one player by serial number.
func (c *AuctionBackendClient) GetPlayer(ctx context.Context, serialNo string) (*models.Player, error) {
	body, err := c.Get(ctx, PlayerBySerialEndpoint, serialNo)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", serialNo, err)
	}

	var response PlayerResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &response.Data, nil
}

// AssignPlayer records a sale. Purse and roster updates happen server side.
func (c *AuctionBackendClient) AssignPlayer(ctx context.Context, assignment models.Assignment) error {
	if _, err := c.PostJSON(ctx, AssignPlayerEndpoint, assignment); err != nil {
		return fmt.Errorf("failed to assign player: %w", err)
	}
	return nil
}
