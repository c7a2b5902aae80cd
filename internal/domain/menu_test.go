package domain

import "testing"

func TestMenuItems(t *testing.T) {
	want := []string{
		"Create Flashcard",
		"List All Flashcards",
		"Practice",
		"Stats",
		"Reset",
		"Delete Flashcard",
		"Exit",
	}

	items := MenuItems()
	if len(items) != len(want) {
		t.Fatalf("Expected %d menu items, but got %d", len(want), len(items))
	}
	for i, item := range items {
		if int(item) != i+1 {
			t.Errorf("Expected item %d to have number %d, but got %d", i, i+1, int(item))
		}
		if item.Label() != want[i] {
			t.Errorf("Expected label %q, but got %q", want[i], item.Label())
		}
	}

	if MenuItem(0).Valid() || MenuItem(8).Valid() {
		t.Error("Expected numbers outside the menu to be invalid")
	}
}
