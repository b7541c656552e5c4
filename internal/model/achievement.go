package model

import "time"

// AchievementConditions is the unlock rule set. Zero values mean the
// condition does not apply.
type AchievementConditions struct {
	MinXP     int `json:"min_xp,omitempty"`
	MinStreak int `json:"min_streak,omitempty"`
}

// Met reports whether the user's current totals satisfy every condition.
func (c AchievementConditions) Met(xp, streak int) bool {
	if c.MinXP > 0 && xp < c.MinXP {
		return false
	}
	if c.MinStreak > 0 && streak < c.MinStreak {
		return false
	}
	return c.MinXP > 0 || c.MinStreak > 0
}

type Achievement struct {
	BaseModel
	Key         string                `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Title       string                `gorm:"size:255;not null" json:"title"`
	Description string                `gorm:"type:text" json:"description,omitempty"`
	IconURL     string                `gorm:"size:500" json:"iconUrl,omitempty"`
	Conditions  AchievementConditions `gorm:"serializer:json" json:"conditions"`
	IsActive    bool                  `gorm:"default:true" json:"isActive"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement links a user to an earned achievement. Awarding is
// idempotent through the unique pair index.
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:uq_user_achievement;not null;type:bigint unsigned" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:uq_user_achievement;not null;type:bigint unsigned" json:"achievementId"`
	AwardedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"awardedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
