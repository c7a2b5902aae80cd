package session

import "github.com/conorfennell/flashdrill/internal/domain"

// State is the position of a Controller in the session.
type State int

const (
	Idle State = iota
	AwaitingUsername
	MainMenu
	Creating
	Listing
	Practicing
	ShowingStats
	Resetting
	Deleting
	Exited
)

var stateNames = map[State]string{
	Idle:             "Idle",
	AwaitingUsername: "AwaitingUsername",
	MainMenu:         "MainMenu",
	Creating:         "Creating",
	Listing:          "Listing",
	Practicing:       "Practicing",
	ShowingStats:     "Stats",
	Resetting:        "Resetting",
	Deleting:         "Deleting",
	Exited:           "Exited",
}

func (s State) String() string {
	return stateNames[s]
}

// actionStates is the state entered for each menu item other than Exit.
var actionStates = map[domain.MenuItem]State{
	domain.MenuCreate:   Creating,
	domain.MenuList:     Listing,
	domain.MenuPractice: Practicing,
	domain.MenuStats:    ShowingStats,
	domain.MenuReset:    Resetting,
	domain.MenuDelete:   Deleting,
}
