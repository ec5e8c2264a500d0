package player

import "errors"

// ErrSummariesUnavailable is returned when the listing endpoint reports success=false or fails
var ErrSummariesUnavailable = errors.New("player summaries unavailable")
