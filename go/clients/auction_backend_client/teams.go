package auction_backend_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/models"
)

type TeamsResponse struct {
	Data []models.Team `json:"data"`
}

// AddTeam submits a multipart team creation. logo is optional.
func (c *AuctionBackendClient) AddTeam(ctx context.Context, fields []clients.FormField, logo *clients.FormFile) error {
	var files []clients.FormFile
	if logo != nil {
		file := *logo
		file.FieldName = LogoField
		files = append(files, file)
	}

	if _, err := c.PostMultipart(ctx, AddTeamEndpoint, fields, files...); err != nil {
		return fmt.Errorf("failed to add team: %w", err)
	}
	return nil
}

func (c *AuctionBackendClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	body, err := c.Get(ctx, AllTeamsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	var response TeamsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return response.Data, nil
}

// GetTeam fetches one team. This endpoint returns the bare object.
func (c *AuctionBackendClient) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	body, err := c.Get(ctx, TeamByIDEndpoint, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", teamID, err)
	}

	var team models.Team
	if err := json.Unmarshal(body, &team); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &team, nil
}

// ListTeamPlayers fetches a team's roster. This endpoint returns a bare array.
func (c *AuctionBackendClient) ListTeamPlayers(ctx context.Context, teamID string) ([]models.Player, error) {
	body, err := c.Get(ctx, TeamPlayersEndpoint, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players for team %s: %w", teamID, err)
	}

	var players []models.Player
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return players, nil
}
