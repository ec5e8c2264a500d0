package teams

import (
	"fmt"
	"math"

	"github.com/mcdev12/tplauction/go/internal/models"
)

// FormatPurse renders an amount in millions from one million up, and in
// lakhs below that. Halves round up.
func FormatPurse(amount float64) string {
	if amount >= 1_000_000 {
		return fmt.Sprintf("%.1fM", math.Floor(amount/1_000_000*10+0.5)/10)
	}
	return fmt.Sprintf("%.0fL", math.Floor(amount/100_000+0.5))
}

// PurseRemainingPercent is the share of the starting purse still available,
// clamped to 0..100. A team without a purse reports 0.
func PurseRemainingPercent(team models.Team) float64 {
	if !team.PurseAmount.Valid || team.PurseAmount.Value <= 0 || !team.AvailablePurse.Valid {
		return 0
	}
	pct := team.AvailablePurse.Value / team.PurseAmount.Value * 100
	return math.Max(0, math.Min(100, pct))
}

// DefaultPalette is the grid's card gradients, cycled by position.
var DefaultPalette = []string{
	"#dc2626,#b91c1c",
	"#16a34a,#15803d",
	"#2563eb,#1d4ed8",
	"#9333ea,#7e22ce",
	"#ca8a04,#a16207",
	"#ea580c,#c2410c",
	"#db2777,#be185d",
	"#0d9488,#0f766e",
}

// ColorFor picks the palette entry for the card at index.
func ColorFor(palette []string, index int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[index%len(palette)]
}
