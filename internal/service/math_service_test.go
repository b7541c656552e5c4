package service

import (
	"testing"

	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMath(st *fakeStore) (*model.User, *model.LearningPath) {
	user := st.addUser(model.User{FirstName: "Ali", Role: model.Student})
	path := st.addPath(model.LearningPath{
		Key: "uzbek-alphabet",
		Skills: []model.Skill{
			{
				Key:       "counting-1",
				SkillType: model.SkillMath,
				Activities: []model.SkillActivity{
					{
						ActivityType: "addition",
						XPReward:     15,
						Content: model.ActivityContent{
							Problems: []model.Problem{
								{ID: "p1", Prompt: "1 + 1", Answer: 2},
								{ID: "p2", Prompt: "2 + 1", Answer: 3},
								{ID: "p3", Prompt: "2 + 2", Answer: 4},
							},
						},
					},
				},
			},
		},
	})
	return user, path
}

func newMath(st *fakeStore) *MathService {
	return NewMathService(st, NewGamificationService(st, NewLevelPolicy(nil)))
}

func TestEvaluateAttemptAllCorrect(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	result, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
		{ProblemID: "p2", Answer: 3},
		{ProblemID: "p3", Answer: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 1.0, result.Accuracy, 1e-9)
	assert.Equal(t, 15, result.XPAwarded)
	assert.Empty(t, result.Mistakes)
	assert.Equal(t, []string{"next-counting-1"}, result.Unlocked)
	assert.Equal(t, 15, st.getUser(user.ID).XP)
}

func TestEvaluateAttemptPartialAccuracy(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	result, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
		{ProblemID: "p2", Answer: 3},
		{ProblemID: "p3", Answer: 7},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Correct)
	assert.InDelta(t, 2.0/3.0, result.Accuracy, 1e-9)
	assert.Equal(t, 10, result.XPAwarded, "floor(15 * 2/3)")
	assert.Len(t, result.Mistakes, 1)
	assert.Contains(t, result.Mistakes[0], "p3")
	assert.Empty(t, result.Unlocked, "2/3 accuracy is below the unlock threshold")
}

func TestEvaluateAttemptStringifiedComparison(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	// JSON decoding turns numbers into float64 and clients may send strings
	// with stray whitespace; both must match the integral expected value.
	result, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: float64(2)},
		{ProblemID: "p2", Answer: " 3 "},
		{ProblemID: "p3", Answer: "4"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Correct)
}

func TestEvaluateAttemptUnknownProblemID(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	result, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
		{ProblemID: "bogus", Answer: 1},
	})
	require.NoError(t, err, "unknown ids are mistakes, not errors")

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 3, result.Total)
	found := false
	for _, m := range result.Mistakes {
		if m == `unknown problem "bogus"` {
			found = true
		}
	}
	assert.True(t, found, "mistakes: %v", result.Mistakes)
}

func TestEvaluateAttemptMissingAnswersCountAgainstTotal(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	result, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Mistakes, 2)
}

func TestEvaluateAttemptNoStreakInteraction(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	user.CurrentStreak = 4
	require.NoError(t, st.Users().Save(user))
	svc := newMath(st)

	_, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 99},
		{ProblemID: "p2", Answer: 99},
		{ProblemID: "p3", Answer: 99},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, st.getUser(user.ID).CurrentStreak, "numeracy scoring never touches streaks")
}

func TestEvaluateAttemptEmptySubmission(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	_, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", nil, nil)
	assert.ErrorIs(t, err, util.ErrEmptySubmission)
}

func TestEvaluateAttemptUnknownSkill(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	_, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "no-such-skill", nil, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
	})
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestEvaluateAttemptExplicitActivityMustBelongToSkill(t *testing.T) {
	st := newFakeStore()
	user, _ := seedMath(st)
	svc := newMath(st)

	bogus := uint(9999)
	_, err := svc.EvaluateAttempt(user.ID, "uzbek-alphabet", "counting-1", &bogus, []AnswerSubmission{
		{ProblemID: "p1", Answer: 2},
	})
	assert.ErrorIs(t, err, util.ErrActivityNotFound)
}

func TestStringifyAnswer(t *testing.T) {
	assert.Equal(t, "2", stringifyAnswer(float64(2)))
	assert.Equal(t, "2.5", stringifyAnswer(2.5))
	assert.Equal(t, "7", stringifyAnswer(7))
	assert.Equal(t, "olma", stringifyAnswer("  olma "))
	assert.Equal(t, "true", stringifyAnswer(true))
	assert.Equal(t, "", stringifyAnswer(nil))
}
