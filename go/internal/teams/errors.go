package teams

import "errors"

var (
	// ErrTeamNotFound is the detail view's reason when the team itself could not be loaded
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamsUnavailable = errors.New("teams unavailable")
)
