package entity

// User is the minimal profile projection this core needs for leaderboard
// search and display. The full user domain lives outside this service.
type User struct {
	Base

	Username string `gorm:"unique"`
	Name     string
	Location string
}
