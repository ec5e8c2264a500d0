package models

import "encoding/json"

// Team represents an auction team in the system
type Team struct {
	ID                 string `json:"_id"`
	TeamName           string `json:"teamName"`
	OwnerName          string `json:"ownerName"`
	TeamLogo           string `json:"teamLogo,omitempty"`
	PurseAmount        Amount `json:"purseAmount"`
	AvailablePurse     Amount `json:"availablePurse"`
	TotalPlayersBought int    `json:"totalPlayersBought"`
}

// UnmarshalJSON accepts both "_id" and "id".
func (t *Team) UnmarshalJSON(data []byte) error {
	type alias Team
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.AltID
	}
	return nil
}

// FindTeam returns the team with the given id.
func FindTeam(teams []Team, id string) (Team, bool) {
	for _, team := range teams {
		if team.ID == id {
			return team, true
		}
	}
	return Team{}, false
}
