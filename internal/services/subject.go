package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type SubjectService interface {
	List(ctx context.Context) ([]*types.Subject, error)
	Seed(ctx context.Context, rows []*types.Subject) (int, error)
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
}

func NewSubjectService(db *gorm.DB, log *logger.Logger, subjectRepo repos.SubjectRepo) SubjectService {
	return &subjectService{
		db:          db,
		log:         log.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
	}
}

func (s *subjectService) List(ctx context.Context) ([]*types.Subject, error) {
	rows, err := s.subjectRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return rows, nil
}

// Seed upserts subjects by name. Names are trimmed and must be unique within rows.
func (s *subjectService) Seed(ctx context.Context, rows []*types.Subject) (int, error) {
	seen := make(map[string]bool, len(rows))
	clean := make([]*types.Subject, 0, len(rows))
	for i, r := range rows {
		if r == nil {
			continue
		}
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return 0, study.Invalid("subject %d: name is required", i)
		}
		if seen[name] {
			return 0, study.Invalid("duplicate subject name %q", name)
		}
		seen[name] = true
		clean = append(clean, &types.Subject{Name: name, Description: strings.TrimSpace(r.Description)})
	}
	if len(clean) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.subjectRepo.UpsertByName(dbctx.Context{Ctx: ctx, Tx: tx}, clean)
	})
	if err != nil {
		return 0, fmt.Errorf("seed subjects: %w", err)
	}
	s.log.Info("Subjects seeded", "count", len(clean))
	return len(clean), nil
}
