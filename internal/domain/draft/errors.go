package draft

import "errors"

// ErrInvalidTeamCount is returned when fewer than one team is requested.
var ErrInvalidTeamCount = errors.New("team count must be positive")
