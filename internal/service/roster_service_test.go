package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akademia-dev/attendance-api/internal/models"
	appErrors "github.com/akademia-dev/attendance-api/pkg/errors"
)

type rosterStoreStub struct {
	members []models.RosterMember
	err     error
}

func (s *rosterStoreStub) Roster(ctx context.Context, subjectID string, section int) ([]models.RosterMember, error) {
	return s.members, s.err
}

func (s *rosterStoreStub) RosterSize(ctx context.Context, subjectID string, section int) (int, error) {
	return len(s.members), s.err
}

func TestRosterResolve(t *testing.T) {
	store := &rosterStoreStub{members: []models.RosterMember{
		{StudentID: "std-1", StudentName: "Alice"},
		{StudentID: "std-2", StudentName: "Bob"},
	}}
	svc := NewRosterService(store)

	members, err := svc.Resolve(context.Background(), "sub-1", 1)
	require.NoError(t, err)
	require.Len(t, members, 2)

	size, err := svc.Size(context.Background(), "sub-1", 0)
	require.NoError(t, err)
	require.Equal(t, 2, size)
}

func TestRosterRequiresSubject(t *testing.T) {
	svc := NewRosterService(&rosterStoreStub{})

	_, err := svc.Resolve(context.Background(), "", 1)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Size(context.Background(), "", 1)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRosterWrapsStoreErrors(t *testing.T) {
	svc := NewRosterService(&rosterStoreStub{err: errors.New("connection refused")})

	_, err := svc.Resolve(context.Background(), "sub-1", 1)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
