package models

import (
	"encoding/json"
	"strings"
)

// Role represents a cricket player's role
type Role string

const (
	RoleBatsman    Role = "Batsman"
	RoleBowler     Role = "Bowler"
	RoleAllrounder Role = "Allrounder"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleBatsman, RoleBowler, RoleAllrounder}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// WicketKeeper is transmitted as the literal string "True" or "False".
type WicketKeeper string

const (
	WicketKeeperYes WicketKeeper = "True"
	WicketKeeperNo  WicketKeeper = "False"
)

func (w WicketKeeper) Valid() bool {
	return w == WicketKeeperYes || w == WicketKeeperNo
}

func (w WicketKeeper) Bool() bool {
	return w == WicketKeeperYes
}

// Player represents an auction player as returned by the backend
type Player struct {
	ID           string       `json:"_id"`
	SerialNo     string       `json:"serialNo"`
	PlayerName   string       `json:"playerName"`
	Role         Role         `json:"role"`
	WicketKeeper WicketKeeper `json:"wicketKeeper"`
	BasePrice    Amount       `json:"basePrice"`
	Age          Amount       `json:"age"`
	PictureURL   string       `json:"pictureUrl,omitempty"`
	SoldTo       *TeamRef     `json:"soldTo,omitempty"`
	SoldPrice    Amount       `json:"soldPrice"`
}

// UnmarshalJSON accepts both "_id" and "id" and a serial number sent as a number.
func (p *Player) UnmarshalJSON(data []byte) error {
	type alias Player
	aux := struct {
		*alias
		AltID    string          `json:"id"`
		SerialNo json.RawMessage `json:"serialNo"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.AltID
	}
	p.SerialNo = rawToString(aux.SerialNo)
	return nil
}

// IsSold reports whether the backend already recorded an assignment.
func (p Player) IsSold() bool {
	return p.SoldTo != nil && (p.SoldTo.ID != "" || p.SoldTo.TeamName != "")
}

// TeamRef is the soldTo reference on a player. The backend sends either a
// bare id string or a populated team object.
type TeamRef struct {
	ID       string `json:"_id"`
	TeamName string `json:"teamName,omitempty"`
}

func (t *TeamRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &t.ID)
	}

	var obj struct {
		ID       string `json:"_id"`
		AltID    string `json:"id"`
		TeamName string `json:"teamName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.ID = obj.ID
	if t.ID == "" {
		t.ID = obj.AltID
	}
	t.TeamName = obj.TeamName
	return nil
}

// PlayerSummary is one row of the all-players listing
type PlayerSummary struct {
	ID         string `json:"_id"`
	SerialNo   string `json:"serialNo"`
	PlayerName string `json:"playerName"`
	Role       Role   `json:"role"`
	Age        Amount `json:"age"`
	PictureURL string `json:"pictureUrl,omitempty"`
	TeamName   string `json:"teamName,omitempty"`
	SoldPrice  Amount `json:"soldPrice"`

	awaitingSale bool
}

func (s *PlayerSummary) UnmarshalJSON(data []byte) error {
	type alias PlayerSummary
	aux := struct {
		*alias
		AltID     string          `json:"id"`
		SerialNo  json.RawMessage `json:"serialNo"`
		SoldPrice json.RawMessage `json:"soldPrice"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = aux.AltID
	}
	s.SerialNo = rawToString(aux.SerialNo)

	s.SoldPrice = Amount{}
	if len(aux.SoldPrice) > 0 {
		if err := s.SoldPrice.UnmarshalJSON(aux.SoldPrice); err != nil {
			return err
		}
	}
	var marker string
	s.awaitingSale = json.Unmarshal(aux.SoldPrice, &marker) == nil && marker == NotYetSold
	return nil
}

// IsSold reports whether the summary's sold price is anything but the
// "Yet to be sold" marker. A missing or null price counts as sold.
func (s PlayerSummary) IsSold() bool {
	return !s.awaitingSale
}

// HasTeam reports whether the summary names a buying team.
func (s PlayerSummary) HasTeam() bool {
	return s.TeamName != "" && s.TeamName != UnsoldTeamName
}

// UnsoldTeamName is the placeholder team name the summary endpoint uses.
const UnsoldTeamName = "Unsold"

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
