package database

import (
	"github.com/habitflow/habitflow/internal/habits"
)

// Ensure the repositories satisfy the engine's store contracts
var (
	_ habits.HabitStore   = (*HabitRepository)(nil)
	_ habits.CheckinStore = (*CheckinRepository)(nil)
	_ habits.UserStore    = (*UserRepository)(nil)
)
