package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	"github.com/yungbote/studynotes-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/ctxutil"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type harness struct {
	db  *gorm.DB
	log *logger.Logger

	users     repos.UserRepo
	subjects  repos.SubjectRepo
	topics    repos.TopicRepo
	notes     repos.NoteRepo
	analytics repos.NoteAnalyticsRepo
	prefs     repos.UserPreferenceRepo

	user    *types.User
	subject *types.Subject
	ctx     context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		db:        db,
		log:       log,
		users:     repos.NewUserRepo(db, log),
		subjects:  repos.NewSubjectRepo(db, log),
		topics:    repos.NewTopicRepo(db, log),
		notes:     repos.NewNoteRepo(db, log),
		analytics: repos.NewNoteAnalyticsRepo(db, log),
		prefs:     repos.NewUserPreferenceRepo(db, log),
	}
	h.user = testutil.SeedUser(t, context.Background(), db, "owner@example.com")
	h.subject = testutil.SeedSubject(t, context.Background(), db, "Physics")
	h.ctx = asUser(h.user.ID)
	return h
}

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id})
}

func (h *harness) seedTopic(t *testing.T, status types.TopicStatus) *types.StudyTopic {
	t.Helper()
	return testutil.SeedTopic(t, context.Background(), h.db, h.user.ID, h.subject.ID, "Optics", status)
}

func (h *harness) topicStatus(t *testing.T, id uuid.UUID) types.TopicStatus {
	t.Helper()
	var topic types.StudyTopic
	if err := h.db.First(&topic, "id = ?", id).Error; err != nil {
		t.Fatalf("load topic: %v", err)
	}
	return topic.Status
}

func (h *harness) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.TopicStatusEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev types.TopicStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) moves() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, string(ev.From)+"->"+string(ev.To))
	}
	return out
}

func dbcFor(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }
