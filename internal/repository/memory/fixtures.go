package memory

import "repoapi/internal/model"

// FixtureSet is the list of records a store is seeded with.
type FixtureSet struct {
	Users []model.User
	Items []model.Item
}

// Fixtures returns the records shipped with the demo.
// Every call returns fresh slices.
func Fixtures() FixtureSet {
	return FixtureSet{
		Users: []model.User{
			{ID: 1, Name: "foo"},
			{ID: 2, Name: "bar"},
		},
		Items: []model.Item{
			{ID: 1, Name: "item1"},
			{ID: 2, Name: "item2"},
		},
	}
}
