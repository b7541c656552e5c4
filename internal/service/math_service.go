package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"
)

// MathUnlockThreshold is the accuracy at which the next skill unit is
// reported as unlocked.
const MathUnlockThreshold = 0.8

const unlockMarkerPrefix = "next-"

// AnswerSubmission is one submitted answer keyed by its problem identifier.
type AnswerSubmission struct {
	ProblemID string      `json:"problemId" binding:"required"`
	Answer    interface{} `json:"answer"`
}

// MathService evaluates numeracy activity submissions. Scoring has no streak
// interaction; only XP and level move.
type MathService struct {
	store  Store
	gamify *GamificationService
}

func NewMathService(store Store, gamify *GamificationService) *MathService {
	return &MathService{store: store, gamify: gamify}
}

type MathEvalResult struct {
	SkillKey   string   `json:"skillKey"`
	ActivityID uint     `json:"activityId"`
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	Accuracy   float64  `json:"accuracy"`
	XPAwarded  int      `json:"xpAwarded"`
	LeveledUp  bool     `json:"leveledUp"`
	Level      int      `json:"level"`
	Mistakes   []string `json:"mistakes,omitempty"`
	Unlocked   []string `json:"unlocked,omitempty"`
}

// EvaluateAttempt grades the submitted answers against the activity's problem
// set. Mismatches and unknown problem IDs become mistake strings, never
// errors. activityID nil selects the skill's earliest activity.
func (s *MathService) EvaluateAttempt(userID uint, pathKey, skillKey string, activityID *uint, answers []AnswerSubmission) (*MathEvalResult, error) {
	if len(answers) == 0 {
		return nil, util.ErrEmptySubmission
	}

	path, err := s.store.Curriculum().FindPathByKey(pathKey)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, util.ErrLearningPathNotFound
	}

	skill, err := s.store.Skills().FindSkillByKey(path.ID, skillKey)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		return nil, util.ErrSkillNotFound
	}

	activity, err := s.pickActivity(skill, activityID)
	if err != nil {
		return nil, err
	}

	expected := make(map[string]string, len(activity.Content.Problems))
	for _, p := range activity.Content.Problems {
		expected[p.ID] = stringifyAnswer(p.Answer)
	}

	submitted := make(map[string]string, len(answers))
	var mistakes []string
	for _, a := range answers {
		if _, known := expected[a.ProblemID]; !known {
			mistakes = append(mistakes, fmt.Sprintf("unknown problem %q", a.ProblemID))
			continue
		}
		submitted[a.ProblemID] = stringifyAnswer(a.Answer)
	}

	correct := 0
	for _, p := range activity.Content.Problems {
		got, answered := submitted[p.ID]
		want := expected[p.ID]
		switch {
		case !answered:
			mistakes = append(mistakes, fmt.Sprintf("problem %q: no answer submitted", p.ID))
		case got == want:
			correct++
		default:
			mistakes = append(mistakes, fmt.Sprintf("problem %q: expected %s, got %s", p.ID, want, got))
		}
	}

	total := len(activity.Content.Problems)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	xpAwarded := int(math.Floor(float64(activity.XPReward) * accuracy))

	var level int
	var leveledUp bool
	err = s.store.Transaction(func(tx Store) error {
		user, err := tx.Users().FindByID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return util.ErrUserNotFound
		}

		oldLevel := user.Level
		user.XP += xpAwarded
		if newLevel := s.gamify.Policy().Level(user.XP); newLevel > user.Level {
			user.Level = newLevel
		}
		leveledUp = user.Level > oldLevel
		level = user.Level

		if err := tx.Users().Save(user); err != nil {
			return err
		}
		_, err = s.gamify.CheckAchievements(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	var unlocked []string
	if accuracy >= MathUnlockThreshold {
		unlocked = []string{unlockMarkerPrefix + skill.Key}
	}

	return &MathEvalResult{
		SkillKey:   skill.Key,
		ActivityID: activity.ID,
		Correct:    correct,
		Total:      total,
		Accuracy:   accuracy,
		XPAwarded:  xpAwarded,
		LeveledUp:  leveledUp,
		Level:      level,
		Mistakes:   mistakes,
		Unlocked:   unlocked,
	}, nil
}

func (s *MathService) pickActivity(skill *model.Skill, activityID *uint) (*model.SkillActivity, error) {
	if activityID != nil {
		activity, err := s.store.Skills().FindActivityByID(*activityID)
		if err != nil {
			return nil, err
		}
		if activity == nil || activity.SkillID != skill.ID {
			return nil, util.ErrActivityNotFound
		}
		return activity, nil
	}
	if len(skill.Activities) == 0 {
		return nil, util.ErrActivityNotFound
	}
	earliest := &skill.Activities[0]
	for i := range skill.Activities {
		if skill.Activities[i].ID < earliest.ID {
			earliest = &skill.Activities[i]
		}
	}
	return earliest, nil
}

// stringifyAnswer normalises an answer to its trimmed string form. JSON
// numbers arrive as float64; integral values must not print a fraction so
// "5" submitted against 5 matches.
func stringifyAnswer(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
