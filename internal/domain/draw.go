package domain

import "time"

type DrawParticipant struct {
	UserID uint   `json:"userId"`
	Handle string `json:"handle"`
	Role   Role   `json:"role"`
}

// Draw records a random pick among the students present at draw time.
// Participants is a snapshot and is never rewritten.
type Draw struct {
	ID           uint
	RoomID       uint
	InitiatorID  uint
	Participants []DrawParticipant
	WinnerID     *uint
	IsRelease    bool
	CreatedAt    time.Time
}

// EligibleParticipants keeps only students.
func EligibleParticipants(participants []DrawParticipant) []DrawParticipant {
	eligible := make([]DrawParticipant, 0, len(participants))
	for _, p := range participants {
		if p.Role == RoleStudent {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Winner returns the participant entry for WinnerID, if any.
func (d *Draw) Winner() (DrawParticipant, bool) {
	if d.WinnerID == nil {
		return DrawParticipant{}, false
	}
	for _, p := range d.Participants {
		if p.UserID == *d.WinnerID {
			return p, true
		}
	}
	return DrawParticipant{}, false
}
