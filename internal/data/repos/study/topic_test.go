package study

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/studynotes-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
)

func TestTopicRepoCRUDAndScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com")
	subj := testutil.SeedSubject(t, ctx, tx, "Physics")

	created, err := repo.Create(dbc, &types.StudyTopic{UserID: owner.ID, SubjectID: subj.ID, Title: "Optics"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != types.TopicStatusPending || created.Difficulty != types.DifficultyBeginner {
		t.Fatalf("defaults not applied: %+v", created)
	}

	got, err := repo.GetByIDForUser(dbc, owner.ID, created.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDForUser(owner): err=%v got=%v", err, got)
	}
	if got.Subject == nil || got.Subject.Name != "Physics" {
		t.Fatalf("subject not preloaded: %+v", got.Subject)
	}
	if got, err := repo.GetByIDForUser(dbc, other.ID, created.ID); err != nil || got != nil {
		t.Fatalf("GetByIDForUser(other): err=%v got=%v", err, got)
	}

	if err := repo.UpdateFields(dbc, created.ID, map[string]any{"title": "Wave optics"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got, _ := repo.GetByID(dbc, created.ID); got == nil || got.Title != "Wave optics" {
		t.Fatalf("UpdateFields not applied: %+v", got)
	}

	if err := repo.DeleteByID(dbc, created.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if got, err := repo.GetByID(dbc, created.ID); err != nil || got != nil {
		t.Fatalf("after delete: err=%v got=%v", err, got)
	}
}

func TestTopicRepoCompareAndSetStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "cas@example.com")
	s := testutil.SeedSubject(t, ctx, tx, "Math")
	topic := testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "Limits", types.TopicStatusPending)

	ok, err := repo.CompareAndSetStatus(dbc, topic.ID, types.TopicStatusPending, types.TopicStatusProcessing)
	if err != nil || !ok {
		t.Fatalf("first CAS: ok=%v err=%v", ok, err)
	}
	ok, err = repo.CompareAndSetStatus(dbc, topic.ID, types.TopicStatusPending, types.TopicStatusProcessing)
	if err != nil || ok {
		t.Fatalf("stale CAS should lose: ok=%v err=%v", ok, err)
	}
	if got, _ := repo.GetByID(dbc, topic.ID); got.Status != types.TopicStatusProcessing {
		t.Fatalf("status = %s, want processing", got.Status)
	}
}

func TestTopicRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "lister@example.com")
	other := testutil.SeedUser(t, ctx, tx, "someone@example.com")
	math := testutil.SeedSubject(t, ctx, tx, "Math")
	bio := testutil.SeedSubject(t, ctx, tx, "Biology")

	a := testutil.SeedTopic(t, ctx, tx, u.ID, math.ID, "Algebra basics", types.TopicStatusPending)
	b := testutil.SeedTopic(t, ctx, tx, u.ID, bio.ID, "Cell division", types.TopicStatusCompleted)
	c := testutil.SeedTopic(t, ctx, tx, u.ID, math.ID, "100% calculus", types.TopicStatusFailed)
	testutil.SeedTopic(t, ctx, tx, other.ID, math.ID, "Algebra for others", types.TopicStatusPending)

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []any{a.ID, b.ID, c.ID} {
		if err := tx.Model(&types.StudyTopic{}).Where("id = ?", id).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("set created_at: %v", err)
		}
	}

	all, err := repo.List(dbc, TopicFilter{UserID: u.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != c.ID || all[2].ID != a.ID {
		t.Fatalf("default ordering should be newest first, got %d rows", len(all))
	}

	asc, err := repo.List(dbc, TopicFilter{UserID: u.ID, Ordering: "title"})
	if err != nil || len(asc) != 3 || asc[0].ID != c.ID || asc[1].ID != a.ID {
		t.Fatalf("title ordering: err=%v", err)
	}

	bySubject, err := repo.List(dbc, TopicFilter{UserID: u.ID, SubjectID: &math.ID})
	if err != nil || len(bySubject) != 2 {
		t.Fatalf("subject filter: err=%v len=%d", err, len(bySubject))
	}

	byStatus, err := repo.List(dbc, TopicFilter{UserID: u.ID, Status: types.TopicStatusCompleted})
	if err != nil || len(byStatus) != 1 || byStatus[0].ID != b.ID {
		t.Fatalf("status filter: err=%v", err)
	}

	search, err := repo.List(dbc, TopicFilter{UserID: u.ID, Search: "ALGEBRA"})
	if err != nil || len(search) != 1 || search[0].ID != a.ID {
		t.Fatalf("search: err=%v len=%d", err, len(search))
	}

	literal, err := repo.List(dbc, TopicFilter{UserID: u.ID, Search: "100%"})
	if err != nil || len(literal) != 1 || literal[0].ID != c.ID {
		t.Fatalf("percent should match literally: err=%v len=%d", err, len(literal))
	}

	paged, err := repo.List(dbc, TopicFilter{UserID: u.ID, Page: Page{Limit: 1, Offset: 1}})
	if err != nil || len(paged) != 1 || paged[0].ID != b.ID {
		t.Fatalf("paging: err=%v len=%d", err, len(paged))
	}

	if _, err := repo.List(dbc, TopicFilter{UserID: u.ID, Ordering: "status"}); err == nil {
		t.Fatalf("expected unsupported ordering to fail")
	}
}

func TestTopicRepoCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "counts@example.com")
	s := testutil.SeedSubject(t, ctx, tx, "History")
	testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "a", types.TopicStatusPending)
	testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "b", types.TopicStatusPending)
	done := testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "c", types.TopicStatusCompleted)
	if err := repo.UpdateFields(dbc, done.ID, map[string]any{"difficulty": types.DifficultyAdvanced}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	byStatus, err := repo.CountByStatus(dbc, u.ID)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if byStatus[types.TopicStatusPending] != 2 || byStatus[types.TopicStatusCompleted] != 1 || byStatus[types.TopicStatusFailed] != 0 {
		t.Fatalf("unexpected status counts: %v", byStatus)
	}
	if _, ok := byStatus[types.TopicStatusProcessing]; !ok {
		t.Fatalf("processing bucket should be zero-filled")
	}

	byDifficulty, err := repo.CountByDifficulty(dbc, u.ID)
	if err != nil {
		t.Fatalf("CountByDifficulty: %v", err)
	}
	if byDifficulty[types.DifficultyBeginner] != 2 || byDifficulty[types.DifficultyAdvanced] != 1 || byDifficulty[types.DifficultyIntermediate] != 0 {
		t.Fatalf("unexpected difficulty counts: %v", byDifficulty)
	}
}

func TestTopicRepoListStuckProcessing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTopicRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "stuck@example.com")
	s := testutil.SeedSubject(t, ctx, tx, "Chemistry")
	old := testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "old", types.TopicStatusProcessing)
	testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "fresh", types.TopicStatusProcessing)
	testutil.SeedTopic(t, ctx, tx, u.ID, s.ID, "idle", types.TopicStatusPending)

	if err := tx.Model(&types.StudyTopic{}).Where("id = ?", old.ID).UpdateColumn("updated_at", time.Now().UTC().Add(-2*time.Hour)).Error; err != nil {
		t.Fatalf("age topic: %v", err)
	}

	stuck, err := repo.ListStuckProcessing(dbc, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListStuckProcessing: %v", err)
	}
	if len(stuck) != 1 || stuck[0].ID != old.ID {
		t.Fatalf("expected only the old topic, got %d", len(stuck))
	}
}
