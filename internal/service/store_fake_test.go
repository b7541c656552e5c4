package service

import (
	"fmt"
	"sync"
	"time"

	"alifbe_backend/internal/model"
)

// fakeData is the shared in-memory state behind the fake store. Methods copy
// on read and on write so tests catch forgotten Save calls, mirroring how the
// gorm repositories behave.
type fakeData struct {
	mu sync.Mutex

	users            map[uint]model.User
	paths            map[uint]model.LearningPath
	progress         map[uint]model.UserProgress
	attempts         []model.LessonAttempt
	achievements     map[uint]model.Achievement
	userAchievements map[[2]uint]model.UserAchievement

	nextID uint
}

func newFakeData() *fakeData {
	return &fakeData{
		users:            make(map[uint]model.User),
		paths:            make(map[uint]model.LearningPath),
		progress:         make(map[uint]model.UserProgress),
		achievements:     make(map[uint]model.Achievement),
		userAchievements: make(map[[2]uint]model.UserAchievement),
	}
}

func (d *fakeData) id() uint {
	d.nextID++
	return d.nextID
}

type fakeStore struct{ d *fakeData }

func newFakeStore() *fakeStore {
	return &fakeStore{d: newFakeData()}
}

func (s *fakeStore) Users() UserStore               { return &fakeUsers{s.d} }
func (s *fakeStore) Curriculum() CurriculumStore    { return &fakeCurriculum{s.d} }
func (s *fakeStore) Skills() SkillStore             { return &fakeSkills{s.d} }
func (s *fakeStore) Progress() ProgressStore        { return &fakeProgress{s.d} }
func (s *fakeStore) Attempts() AttemptStore         { return &fakeAttempts{s.d} }
func (s *fakeStore) Achievements() AchievementStore { return &fakeAchievements{s.d} }

func (s *fakeStore) Transaction(fn func(Store) error) error {
	return fn(s)
}

// Seed helpers.

func (s *fakeStore) addUser(u model.User) *model.User {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.d.id()
	}
	if u.Level == 0 {
		u.Level = 1
	}
	s.d.users[u.ID] = u
	out := u
	return &out
}

// addPath assigns IDs through the whole tree and wires parent references.
func (s *fakeStore) addPath(p model.LearningPath) *model.LearningPath {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.d.id()
	}
	p.IsActive = true
	for mi := range p.Modules {
		m := &p.Modules[mi]
		if m.ID == 0 {
			m.ID = s.d.id()
		}
		m.LearningPathID = p.ID
		for li := range m.Lessons {
			l := &m.Lessons[li]
			if l.ID == 0 {
				l.ID = s.d.id()
			}
			l.ModuleID = m.ID
		}
	}
	for si := range p.Skills {
		sk := &p.Skills[si]
		if sk.ID == 0 {
			sk.ID = s.d.id()
		}
		sk.LearningPathID = p.ID
		for ai := range sk.Activities {
			a := &sk.Activities[ai]
			if a.ID == 0 {
				a.ID = s.d.id()
			}
			a.SkillID = sk.ID
		}
	}
	s.d.paths[p.ID] = p
	out := p
	return &out
}

func (s *fakeStore) addAchievement(a model.Achievement) *model.Achievement {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.d.id()
	}
	a.IsActive = true
	s.d.achievements[a.ID] = a
	out := a
	return &out
}

func (s *fakeStore) getUser(id uint) model.User {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.d.users[id]
}

func (s *fakeStore) progressFor(userID, lessonID uint) *model.UserProgress {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, rec := range s.d.progress {
		if rec.UserID == userID && rec.LessonID != nil && *rec.LessonID == lessonID {
			out := rec
			return &out
		}
	}
	return nil
}

type fakeUsers struct{ d *fakeData }

func (f *fakeUsers) FindByID(id uint) (*model.User, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	u, ok := f.d.users[id]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (f *fakeUsers) FindByEmail(email string) (*model.User, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, u := range f.d.users {
		if u.Email != nil && *u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByPhone(phone string) (*model.User, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, u := range f.d.users {
		if u.Phone != nil && *u.Phone == phone {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(user *model.User) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.d.id()
	}
	f.d.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) Save(user *model.User) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if _, ok := f.d.users[user.ID]; !ok {
		return fmt.Errorf("user %d does not exist", user.ID)
	}
	f.d.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) ListChildren(guardianID uint) ([]model.User, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.User
	for _, u := range f.d.users {
		if u.GuardianID != nil && *u.GuardianID == guardianID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) TopByXP(limit int) ([]model.User, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.User
	for _, u := range f.d.users {
		if u.Role == model.Student {
			out = append(out, u)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].XP > out[i].XP {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCurriculum struct{ d *fakeData }

func (f *fakeCurriculum) FindPathByKey(key string) (*model.LearningPath, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, p := range f.d.paths {
		if p.Key == key && p.IsActive {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeCurriculum) ListActivePaths() ([]model.LearningPath, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.LearningPath
	for _, p := range f.d.paths {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCurriculum) FindLessonByID(id uint) (*model.Lesson, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, p := range f.d.paths {
		for mi := range p.Modules {
			for _, l := range p.Modules[mi].Lessons {
				if l.ID == id {
					out := l
					mod := p.Modules[mi]
					mod.Lessons = nil
					out.Module = &mod
					return &out, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeCurriculum) FindModuleByID(id uint) (*model.Module, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, p := range f.d.paths {
		for _, m := range p.Modules {
			if m.ID == id {
				out := m
				return &out, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCurriculum) UpsertPath(path *model.LearningPath) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for id, p := range f.d.paths {
		if p.Key == path.Key {
			path.ID = id
			f.d.paths[id] = *path
			return nil
		}
	}
	if path.ID == 0 {
		path.ID = f.d.id()
	}
	f.d.paths[path.ID] = *path
	return nil
}

type fakeSkills struct{ d *fakeData }

func (f *fakeSkills) FindSkillByKey(pathID uint, key string) (*model.Skill, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.paths[pathID]
	if !ok {
		return nil, nil
	}
	for _, sk := range p.Skills {
		if sk.Key == key {
			out := sk
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeSkills) FindActivityByID(id uint) (*model.SkillActivity, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, p := range f.d.paths {
		for _, sk := range p.Skills {
			for _, a := range sk.Activities {
				if a.ID == id {
					out := a
					return &out, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeSkills) UpsertSkill(skill *model.Skill) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	p, ok := f.d.paths[skill.LearningPathID]
	if !ok {
		return fmt.Errorf("path %d does not exist", skill.LearningPathID)
	}
	for i := range p.Skills {
		if p.Skills[i].Key == skill.Key {
			skill.ID = p.Skills[i].ID
			p.Skills[i] = *skill
			f.d.paths[p.ID] = p
			return nil
		}
	}
	if skill.ID == 0 {
		skill.ID = f.d.id()
	}
	p.Skills = append(p.Skills, *skill)
	f.d.paths[p.ID] = p
	return nil
}

type fakeProgress struct{ d *fakeData }

func (f *fakeProgress) FindByUserAndLesson(userID, lessonID uint) (*model.UserProgress, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, rec := range f.d.progress {
		if rec.UserID == userID && rec.LessonID != nil && *rec.LessonID == lessonID {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeProgress) GetOrCreate(rec *model.UserProgress) (*model.UserProgress, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	for _, existing := range f.d.progress {
		if existing.UserID != rec.UserID {
			continue
		}
		if rec.LessonID != nil && existing.LessonID != nil && *existing.LessonID == *rec.LessonID {
			out := existing
			return &out, nil
		}
		if rec.LessonID == nil && existing.LessonID == nil && existing.LearningPathID == rec.LearningPathID {
			out := existing
			return &out, nil
		}
	}
	stored := *rec
	stored.ID = f.d.id()
	f.d.progress[stored.ID] = stored
	out := stored
	return &out, nil
}

func (f *fakeProgress) Save(rec *model.UserProgress) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if _, ok := f.d.progress[rec.ID]; !ok {
		return fmt.Errorf("progress %d does not exist", rec.ID)
	}
	f.d.progress[rec.ID] = *rec
	return nil
}

func (f *fakeProgress) CompletedLessonIDs(userID uint, lessonIDs []uint) (map[uint]struct{}, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	wanted := make(map[uint]struct{}, len(lessonIDs))
	for _, id := range lessonIDs {
		wanted[id] = struct{}{}
	}
	completed := make(map[uint]struct{})
	for _, rec := range f.d.progress {
		if rec.UserID != userID || rec.Status != model.StatusCompleted || rec.LessonID == nil {
			continue
		}
		if _, ok := wanted[*rec.LessonID]; ok {
			completed[*rec.LessonID] = struct{}{}
		}
	}
	return completed, nil
}

func (f *fakeProgress) ListByUser(userID, pathID uint) ([]model.UserProgress, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.UserProgress
	for _, rec := range f.d.progress {
		if rec.UserID == userID && (pathID == 0 || rec.LearningPathID == pathID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeAttempts struct{ d *fakeData }

func (f *fakeAttempts) Create(att *model.LessonAttempt) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	if att.ID == "" {
		att.ID = fmt.Sprintf("attempt-%d", len(f.d.attempts)+1)
	}
	att.CreatedAt = time.Now()
	f.d.attempts = append(f.d.attempts, *att)
	return nil
}

func (f *fakeAttempts) ListByUserAndLesson(userID, lessonID uint, limit int) ([]model.LessonAttempt, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.LessonAttempt
	for i := len(f.d.attempts) - 1; i >= 0; i-- {
		a := f.d.attempts[i]
		if a.UserID == userID && a.LessonID == lessonID {
			out = append(out, a)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAttempts) ListRecentByUser(userID uint, limit int) ([]model.LessonAttempt, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.LessonAttempt
	for i := len(f.d.attempts) - 1; i >= 0; i-- {
		if f.d.attempts[i].UserID == userID {
			out = append(out, f.d.attempts[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeAchievements struct{ d *fakeData }

func (f *fakeAchievements) ListActive() ([]model.Achievement, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.Achievement
	for _, a := range f.d.achievements {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAchievements) Award(userID, achievementID uint) (bool, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	key := [2]uint{userID, achievementID}
	if _, ok := f.d.userAchievements[key]; ok {
		return false, nil
	}
	f.d.userAchievements[key] = model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AwardedAt:     time.Now(),
	}
	return true, nil
}

func (f *fakeAchievements) ListByUser(userID uint) ([]model.UserAchievement, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()
	var out []model.UserAchievement
	for key, ua := range f.d.userAchievements {
		if key[0] != userID {
			continue
		}
		a := f.d.achievements[ua.AchievementID]
		ua.Achievement = &a
		out = append(out, ua)
	}
	return out, nil
}
