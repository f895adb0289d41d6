package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
)

func TestSubjectSeedAndList(t *testing.T) {
	h := newHarness(t)
	svc := NewSubjectService(h.db, h.log, h.subjects)

	n, err := svc.Seed(h.ctx, []*types.Subject{
		{Name: " Biology ", Description: "life"},
		{Name: "Physics", Description: "updated"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := svc.List(h.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Biology", rows[0].Name)
	assert.Equal(t, "Physics", rows[1].Name)
	assert.Equal(t, "updated", rows[1].Description)
	assert.Equal(t, h.subject.ID, rows[1].ID, "upsert keeps ids stable")

	_, err = svc.Seed(h.ctx, []*types.Subject{{Name: "A"}, {Name: "A"}})
	assert.ErrorIs(t, err, study.ErrValidation)
	_, err = svc.Seed(h.ctx, []*types.Subject{{Name: ""}})
	assert.ErrorIs(t, err, study.ErrValidation)
}
