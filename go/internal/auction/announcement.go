package auction

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// UnknownTeamName stands in when the chosen team is not in the loaded list.
const UnknownTeamName = "Unknown Team"

var printer = message.NewPrinter(language.English)

// FormatRupees groups thousands and keeps up to three fraction digits.
func FormatRupees(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(3)))
}

// ComposeAnnouncement builds the sold announcement read out to the room.
func ComposeAnnouncement(playerName string, price float64, teamName string) string {
	if teamName == "" {
		teamName = UnknownTeamName
	}
	return fmt.Sprintf("Congratulations! %s sold for %s rupees to %s. What an amazing deal!",
		playerName, FormatRupees(price), teamName)
}
