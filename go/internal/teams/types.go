package teams

import (
	"strconv"
	"strings"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
)

// AddTeamForm holds the raw values an operator typed into the add-team form
type AddTeamForm struct {
	TeamName    string `yaml:"teamName"`
	OwnerName   string `yaml:"ownerName"`
	PurseAmount string `yaml:"purseAmount"`
}

func (f AddTeamForm) Validate() forms.FieldErrors {
	errs := forms.FieldErrors{}
	forms.MinLength(errs, "teamName", f.TeamName, 2, "Team name must be at least 2 characters")
	forms.MinLength(errs, "ownerName", f.OwnerName, 2, "Owner name must be at least 2 characters")
	forms.RequiredInt(errs, "purseAmount", f.PurseAmount, "Purse amount is required", "Purse amount must be a whole number")
	return errs
}

// Fields builds the multipart text fields. A new team starts with its whole
// purse available.
func (f AddTeamForm) Fields() []clients.FormField {
	purse := strings.TrimSpace(f.PurseAmount)
	if n, err := strconv.Atoi(purse); err == nil {
		purse = strconv.Itoa(n)
	}

	return []clients.FormField{
		{Name: "teamName", Value: f.TeamName},
		{Name: "ownerName", Value: f.OwnerName},
		{Name: "purseAmount", Value: purse},
		{Name: "availablePurse", Value: purse},
	}
}

// Detail is one team with its bought players.
type Detail struct {
	Team    models.Team
	Players []models.Player
}

// GridCard is a team as drawn on the home grid.
type GridCard struct {
	Team             models.Team
	Color            string
	Purse            string
	Available        string
	RemainingPercent float64
}
