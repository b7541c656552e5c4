package model

import "time"

type UserRole string

const (
	Student  UserRole = "student"
	Mentor   UserRole = "mentor"
	Admin    UserRole = "admin"
	Guardian UserRole = "guardian"
)

// User is a learner (child), their guardian, or a staff account.
//
// XP is monotonically non-decreasing; Level is derived from XP through the
// leveling policy and cached here for display. Both are mutated only by the
// gamification engine.
//
// swagger:model User
type User struct {
	BaseModel
	Email         *string                `gorm:"size:320;uniqueIndex" json:"email,omitempty"`
	Phone         *string                `gorm:"size:32;uniqueIndex" json:"phone,omitempty"`
	Password      string                 `gorm:"size:100" json:"-"`
	FirstName     string                 `gorm:"size:100" json:"firstName"`
	LastName      string                 `gorm:"size:100" json:"lastName,omitempty"`
	Nickname      string                 `gorm:"size:50" json:"nickname,omitempty"`
	Age           *int                   `json:"age,omitempty"`
	Locale        string                 `gorm:"size:16;default:'uz-Latn'" json:"locale"`
	Role          UserRole               `gorm:"type:enum('student','mentor','admin','guardian');default:'student'" json:"role"`
	GuardianID    *uint                  `gorm:"index;type:bigint unsigned" json:"guardianId,omitempty"`
	XP            int                    `gorm:"default:0" json:"xp"`
	Level         int                    `gorm:"default:1" json:"level"`
	CurrentStreak int                    `gorm:"default:0" json:"currentStreak"`
	LongestStreak int                    `gorm:"default:0" json:"longestStreak"`
	AvatarURL     string                 `gorm:"size:500" json:"avatarUrl,omitempty"`
	Preferences   map[string]interface{} `gorm:"serializer:json" json:"preferences,omitempty"`
	LastSeen      time.Time              `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
