package domain

// MenuItem is one action of the main menu. Values are the numbers shown to the user.
type MenuItem int

const (
	MenuCreate MenuItem = iota + 1
	MenuList
	MenuPractice
	MenuStats
	MenuReset
	MenuDelete
	MenuExit
)

var menuLabels = map[MenuItem]string{
	MenuCreate:   "Create Flashcard",
	MenuList:     "List All Flashcards",
	MenuPractice: "Practice",
	MenuStats:    "Stats",
	MenuReset:    "Reset",
	MenuDelete:   "Delete Flashcard",
	MenuExit:     "Exit",
}

// MenuItems returns the menu in display order.
func MenuItems() []MenuItem {
	return []MenuItem{MenuCreate, MenuList, MenuPractice, MenuStats, MenuReset, MenuDelete, MenuExit}
}

func (m MenuItem) Label() string {
	return menuLabels[m]
}

func (m MenuItem) Valid() bool {
	_, ok := menuLabels[m]
	return ok
}
