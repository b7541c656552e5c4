package service

import (
	"testing"

	"alifbe_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleContentYAML = `
paths:
  - key: uzbek-alphabet
    title: O'zbek alifbosi
    modules:
      - key: alphabet-1
        title: Birinchi harflar
        is_unlocked_by_default: true
        lessons:
          - key: letter-A
            title: A harfi
            target_letter: A
            example_words: [anor, olma]
            prompts:
              - prompt_type: evaluation
                template: "Score {{transcript}} against A"
          - key: letter-B
            title: B harfi
            target_letter: B
            xp_reward: 12
    skills:
      - key: counting-1
        title: Sanash
        activities:
          - activity_type: addition
            problems:
              - id: p1
                prompt: "1 + 1"
                answer: 2
`

func TestSyncFromYAMLPayload(t *testing.T) {
	var payload ContentPayload
	require.NoError(t, yaml.Unmarshal([]byte(sampleContentYAML), &payload))

	st := newFakeStore()
	svc := NewContentService(st)

	stats, err := svc.Sync(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Paths)
	assert.Equal(t, 1, stats.Modules)
	assert.Equal(t, 2, stats.Lessons)
	assert.Equal(t, 1, stats.Skills)

	path, err := st.Curriculum().FindPathByKey("uzbek-alphabet")
	require.NoError(t, err)
	require.NotNil(t, path)
	require.Len(t, path.Modules, 1)
	require.Len(t, path.Modules[0].Lessons, 2)

	first := path.Modules[0].Lessons[0]
	assert.Equal(t, "letter-A", first.Key)
	assert.Equal(t, []string{"anor", "olma"}, first.ExampleWords)
	assert.Equal(t, 10, first.XPReward, "defaulted reward")
	require.Len(t, first.Prompts, 1)
	assert.Equal(t, model.EvaluationPrompt, first.Prompts[0].PromptType)
	assert.Equal(t, "uz-Latn", first.Prompts[0].Locale, "defaulted locale")

	assert.Equal(t, 12, path.Modules[0].Lessons[1].XPReward)

	skill, err := st.Skills().FindSkillByKey(path.ID, "counting-1")
	require.NoError(t, err)
	require.NotNil(t, skill)
	assert.Equal(t, model.SkillMath, skill.SkillType, "defaulted skill type")
	require.Len(t, skill.Activities, 1)
	assert.Equal(t, 15, skill.Activities[0].XPReward, "defaulted reward")
	require.Len(t, skill.Activities[0].Content.Problems, 1)
	assert.Equal(t, "p1", skill.Activities[0].Content.Problems[0].ID)
}

func TestSyncIsIdempotent(t *testing.T) {
	var payload ContentPayload
	require.NoError(t, yaml.Unmarshal([]byte(sampleContentYAML), &payload))

	st := newFakeStore()
	svc := NewContentService(st)

	_, err := svc.Sync(payload)
	require.NoError(t, err)
	first, err := st.Curriculum().FindPathByKey("uzbek-alphabet")
	require.NoError(t, err)

	_, err = svc.Sync(payload)
	require.NoError(t, err)
	second, err := st.Curriculum().FindPathByKey("uzbek-alphabet")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-sync reuses the existing row")

	paths, err := st.Curriculum().ListActivePaths()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
