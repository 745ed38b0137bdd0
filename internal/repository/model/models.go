package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID               uint    `gorm:"primaryKey"`
	Name             string  `gorm:"size:255;not null"`
	Handle           *string `gorm:"size:64;uniqueIndex"`
	PasswordHash     string  `gorm:"size:255;not null"`
	Role             string  `gorm:"size:16;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	StudentProfile   *StudentProfile   `gorm:"constraint:OnDelete:CASCADE"`
	ProfessorProfile *ProfessorProfile `gorm:"constraint:OnDelete:CASCADE"`
}

type StudentProfile struct {
	ID        uint   `gorm:"primaryKey"`
	StudentNo string `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
}

type ProfessorProfile struct {
	ID          uint   `gorm:"primaryKey"`
	ProfessorNo string `gorm:"size:64;uniqueIndex;not null"`
	UserID      uint   `gorm:"uniqueIndex;not null"`
}

type Room struct {
	ID        uint    `gorm:"primaryKey"`
	Code      string  `gorm:"size:16;uniqueIndex;not null"`
	Name      string  `gorm:"size:255;not null"`
	ImageKey  *string `gorm:"size:512"`
	IsActive  bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StudentRoom and ProfessorRoom are the membership rosters.
type StudentRoom struct {
	StudentProfileID uint           `gorm:"primaryKey"`
	RoomID           uint           `gorm:"primaryKey;index"`
	StudentProfile   StudentProfile `gorm:"constraint:OnDelete:CASCADE"`
	Room             Room           `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
}

type ProfessorRoom struct {
	ProfessorProfileID uint             `gorm:"primaryKey"`
	RoomID             uint             `gorm:"primaryKey;index"`
	ProfessorProfile   ProfessorProfile `gorm:"constraint:OnDelete:CASCADE"`
	Room               Room             `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time
}

type RoomImage struct {
	ID         uint   `gorm:"primaryKey"`
	RoomID     uint   `gorm:"index;not null"`
	Room       Room   `gorm:"constraint:OnDelete:CASCADE"`
	UploaderID uint   `gorm:"not null"`
	ObjectKey  string `gorm:"size:512;not null"`
	CreatedAt  time.Time
}

type Message struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	Room      Room      `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint      `gorm:"index;not null"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

type OXPoll struct {
	ID        uint `gorm:"primaryKey"`
	RoomID    uint `gorm:"index;not null"`
	Room      Room `gorm:"constraint:OnDelete:CASCADE"`
	CreatorID uint `gorm:"not null"`
	CreatedAt time.Time
	Answers   []OXAnswer `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
}

type OXAnswer struct {
	ID        uint   `gorm:"primaryKey"`
	PollID    uint   `gorm:"not null;uniqueIndex:idx_ox_answer_poll_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_ox_answer_poll_user"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Value     string `gorm:"size:1;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Check struct {
	ID          uint `gorm:"primaryKey"`
	RoomID      uint `gorm:"index;not null"`
	Room        Room `gorm:"constraint:OnDelete:CASCADE"`
	ProfessorID uint `gorm:"not null"`
	IsChecked   bool `gorm:"not null;default:false"`
	CheckCount  int  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Checkers    []CheckUser `gorm:"foreignKey:CheckID;constraint:OnDelete:CASCADE"`
}

// CheckUser is the set of users currently checked in to a Check.
type CheckUser struct {
	CheckID   uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey;index"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type DrawParticipant struct {
	UserID uint   `json:"userId"`
	Handle string `json:"handle"`
	Role   string `json:"role"`
}

type Draw struct {
	ID           uint `gorm:"primaryKey"`
	RoomID       uint `gorm:"index;not null"`
	Room         Room `gorm:"constraint:OnDelete:CASCADE"`
	InitiatorID  uint `gorm:"not null"`
	Participants datatypes.JSONSlice[DrawParticipant]
	WinnerID     *uint
	IsRelease    bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

type Quiz struct {
	ID        uint   `gorm:"primaryKey"`
	RoomID    uint   `gorm:"index;not null"`
	Room      Room   `gorm:"constraint:OnDelete:CASCADE"`
	CreatorID uint   `gorm:"not null"`
	Title     string `gorm:"size:255;not null"`
	CreatedAt time.Time
	Questions []Question `gorm:"constraint:OnDelete:CASCADE"`
}

type Question struct {
	ID            uint   `gorm:"primaryKey"`
	QuizID        uint   `gorm:"index;not null"`
	Question      string `gorm:"type:text;not null"`
	Choices       datatypes.JSONSlice[string]
	CorrectAnswer string `gorm:"size:255;not null"`
}

type Submission struct {
	ID        uint `gorm:"primaryKey"`
	QuizID    uint `gorm:"not null;uniqueIndex:idx_submission_quiz_user"`
	Quiz      Quiz `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_submission_quiz_user"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	Answers   datatypes.JSONSlice[string]
	CreatedAt time.Time
	UpdatedAt time.Time
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&StudentProfile{},
		&ProfessorProfile{},
		&Room{},
		&StudentRoom{},
		&ProfessorRoom{},
		&RoomImage{},
		&Message{},
		&OXPoll{},
		&OXAnswer{},
		&Check{},
		&CheckUser{},
		&Draw{},
		&Quiz{},
		&Question{},
		&Submission{},
	}
}
