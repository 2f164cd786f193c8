package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/challenger-asso/challenger-api/internal/domain"
)

func TestTeamRemoveMember(t *testing.T) {
	captain := uint(1)
	team := domain.Team{
		CaptainID: &captain,
		Members: []domain.SportEnrollment{
			{UserID: 1},
			{UserID: 2},
		},
	}

	team.RemoveMember(2)

	assert.True(t, team.HasMember(1))
	assert.False(t, team.HasMember(2))
	assert.NotNil(t, team.CaptainID, "removing a regular member keeps the captain")

	team.RemoveMember(1)

	assert.False(t, team.HasMember(1))
	assert.Nil(t, team.CaptainID, "removing the captain clears the captain reference")
}
