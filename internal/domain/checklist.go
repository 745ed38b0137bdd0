package domain

import "time"

// ChecklistItem is a check-in prompt. IsChecked mirrors the most recent toggle,
// whoever made it; CheckCount is always the size of CheckedUsers.
type ChecklistItem struct {
	ID           uint
	RoomID       uint
	ProfessorID  uint
	IsChecked    bool
	CheckCount   int
	CheckedUsers []Member
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *ChecklistItem) HasChecked(userID uint) bool {
	for _, u := range c.CheckedUsers {
		if u.UserID == userID {
			return true
		}
	}
	return false
}
