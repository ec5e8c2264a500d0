package player

import (
	"strconv"
	"strings"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
)

// AddPlayerForm holds the raw values an operator typed into the add-player form
type AddPlayerForm struct {
	SerialNo     string              `yaml:"serialNo"`
	PlayerName   string              `yaml:"playerName"`
	Role         models.Role         `yaml:"role"`
	WicketKeeper models.WicketKeeper `yaml:"wicketKeeper"`
	Age          string              `yaml:"age"`
	BasePrice    string              `yaml:"basePrice"`
}

// NewAddPlayerForm returns the form with its default selections.
func NewAddPlayerForm() AddPlayerForm {
	return AddPlayerForm{
		Role:         models.RoleAllrounder,
		WicketKeeper: models.WicketKeeperYes,
	}
}

// Validate runs the field checks. An empty result means the form can be sent.
func (f AddPlayerForm) Validate() forms.FieldErrors {
	errs := forms.FieldErrors{}
	forms.MinLength(errs, "serialNo", f.SerialNo, 1, "Serial number is required")
	forms.MinLength(errs, "playerName", f.PlayerName, 2, "Player name must be at least 2 characters")
	if !f.Role.Valid() {
		errs.Add("role", "Please select a valid role")
	}
	if !f.WicketKeeper.Valid() {
		errs.Add("wicketKeeper", "Please select whether the player keeps wicket")
	}
	forms.OptionalInt(errs, "age", f.Age, "Age must be a whole number")
	forms.OptionalInt(errs, "basePrice", f.BasePrice, "Base price must be a whole number")
	return errs
}

// Fields builds the multipart text fields. basePrice is checked but never sent.
func (f AddPlayerForm) Fields() []clients.FormField {
	fields := []clients.FormField{
		{Name: "serialNo", Value: f.SerialNo},
		{Name: "playerName", Value: f.PlayerName},
		{Name: "role", Value: string(f.Role)},
		{Name: "wicketKeeper", Value: string(f.WicketKeeper)},
	}
	if age := strings.TrimSpace(f.Age); age != "" {
		if n, err := strconv.Atoi(age); err == nil && n != 0 {
			fields = append(fields, clients.FormField{Name: "age", Value: strconv.Itoa(n)})
		}
	}
	return fields
}
