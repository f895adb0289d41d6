package services

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/studynotes-backend/internal/pkg/errors"
	"github.com/yungbote/studynotes-backend/internal/platform/ctxutil"
)

// requireUserID returns the authenticated user id or ErrUnauthorized.
func requireUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	return rd.UserID, nil
}
