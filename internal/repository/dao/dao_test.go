package dao_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/challenger-asso/challenger-api/internal/repository/dao"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		os.Exit(0)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=challenger_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=challenger_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge container: %v", err)
	}

	os.Exit(code)
}

func TestUserDAO_InsertAndFind(t *testing.T) {
	d := dao.NewUserDAO(testDB)

	user, err := d.Insert(context.Background(), dao.User{
		Email:    "alice@example.com",
		Password: "hashed",
		Role:     "participant",
		SchoolID: 1,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	found, err := d.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = d.FindByID(context.Background(), 99999)
	assert.ErrorIs(t, err, dao.ErrUserNotFound)
}

func TestUserDAO_DuplicateEmail(t *testing.T) {
	d := dao.NewUserDAO(testDB)

	_, err := d.Insert(context.Background(), dao.User{
		Email:    "bob@example.com",
		Password: "hashed",
		Role:     "participant",
	})
	require.NoError(t, err)

	_, err = d.Insert(context.Background(), dao.User{
		Email:    "bob@example.com",
		Password: "hashed",
		Role:     "participant",
	})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)
}

func TestUserDAO_UpdatePhone(t *testing.T) {
	d := dao.NewUserDAO(testDB)

	user, err := d.Insert(context.Background(), dao.User{
		Email:    "carol@example.com",
		Password: "hashed",
		Role:     "participant",
	})
	require.NoError(t, err)

	require.NoError(t, d.UpdatePhone(context.Background(), user.ID, "0612345678"))

	found, err := d.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "0612345678", found.Phone)

	assert.ErrorIs(t, d.UpdatePhone(context.Background(), 99999, "0612345678"), dao.ErrUserNotFound)
}

func TestCompetitionDAO_ParticipantLifecycle(t *testing.T) {
	d := dao.NewCompetitionDAO(testDB)

	p, err := d.InsertParticipant(context.Background(), dao.Participant{
		UserID:    100,
		EditionID: 1,
		IsAthlete: true,
		Category:  "senior",
	})
	require.NoError(t, err)

	found, err := d.FindParticipant(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.False(t, found.Validated)

	require.NoError(t, d.SetParticipantValidated(context.Background(), 100, 1, true))
	found, err = d.FindParticipant(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.True(t, found.Validated)

	require.NoError(t, d.DeleteParticipant(context.Background(), 100, 1))
	_, err = d.FindParticipant(context.Background(), 100, 1)
	assert.ErrorIs(t, err, dao.ErrParticipantNotFound)
}

func TestCompetitionDAO_DeleteEnrollmentClearsCaptain(t *testing.T) {
	d := dao.NewCompetitionDAO(testDB)
	ctx := context.Background()

	captainID := uint(200)
	team, err := d.InsertTeam(ctx, dao.Team{
		Name:      "Les Aigles",
		SportID:   7,
		SchoolID:  3,
		CaptainID: &captainID,
	})
	require.NoError(t, err)

	_, err = d.InsertEnrollment(ctx, dao.SportEnrollment{
		UserID:        200,
		ParticipantID: 1,
		SportID:       7,
		SchoolID:      3,
		TeamID:        &team.ID,
	})
	require.NoError(t, err)

	require.NoError(t, d.DeleteEnrollment(ctx, 7, 200))

	_, err = d.FindEnrollment(ctx, 7, 200)
	assert.ErrorIs(t, err, dao.ErrEnrollmentNotFound)

	reloaded, err := d.FindTeamByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CaptainID, "deleting the captain's enrollment must clear the team captain")
}

func TestCompetitionDAO_UpdateEnrollmentTeamClearsVacatedCaptaincy(t *testing.T) {
	d := dao.NewCompetitionDAO(testDB)
	ctx := context.Background()

	captainID := uint(210)
	oldTeam, err := d.InsertTeam(ctx, dao.Team{
		Name:      "Les Faucons",
		SportID:   8,
		SchoolID:  3,
		CaptainID: &captainID,
	})
	require.NoError(t, err)

	newTeam, err := d.InsertTeam(ctx, dao.Team{
		Name:     "Les Condors",
		SportID:  8,
		SchoolID: 3,
	})
	require.NoError(t, err)

	_, err = d.InsertEnrollment(ctx, dao.SportEnrollment{
		UserID:        210,
		ParticipantID: 2,
		SportID:       8,
		SchoolID:      3,
		TeamID:        &oldTeam.ID,
	})
	require.NoError(t, err)

	require.NoError(t, d.UpdateEnrollmentTeam(ctx, 8, 210, &newTeam.ID))

	moved, err := d.FindEnrollment(ctx, 8, 210)
	require.NoError(t, err)
	require.NotNil(t, moved.TeamID)
	assert.Equal(t, newTeam.ID, *moved.TeamID)

	vacated, err := d.FindTeamByID(ctx, oldTeam.ID)
	require.NoError(t, err)
	assert.Nil(t, vacated.CaptainID, "moving the captain out must clear the team captain")

	assert.ErrorIs(t, d.UpdateEnrollmentTeam(ctx, 8, 99999, &newTeam.ID), dao.ErrEnrollmentNotFound)
}

func TestCompetitionDAO_UpsertSportQuota(t *testing.T) {
	d := dao.NewCompetitionDAO(testDB)
	ctx := context.Background()

	ten := 10
	quota, err := d.UpsertSportQuota(ctx, dao.SportQuota{SportID: 50, SchoolID: 60, ParticipantQuota: &ten})
	require.NoError(t, err)

	twenty := 20
	updated, err := d.UpsertSportQuota(ctx, dao.SportQuota{SportID: 50, SchoolID: 60, ParticipantQuota: &twenty})
	require.NoError(t, err)
	assert.Equal(t, quota.ID, updated.ID, "upserting the same pair must update, not duplicate")

	found, err := d.FindSportQuota(ctx, 50, 60)
	require.NoError(t, err)
	require.NotNil(t, found.ParticipantQuota)
	assert.Equal(t, 20, *found.ParticipantQuota)

	_, err = d.FindSportQuota(ctx, 50, 61)
	assert.ErrorIs(t, err, dao.ErrQuotaNotFound)
}

func TestPurchaseDAO_Lifecycle(t *testing.T) {
	d := dao.NewPurchaseDAO(testDB)
	ctx := context.Background()

	product, err := d.InsertProduct(ctx, dao.Product{
		EditionID:  1,
		Name:       "Pack Challenger",
		Required:   true,
		PriceCents: 4500,
		Variants:   "S,M,L",
	})
	require.NoError(t, err)

	purchase, err := d.Insert(ctx, dao.Purchase{
		UserID:    300,
		EditionID: 1,
		ProductID: product.ID,
		Variant:   "M",
		Quantity:  1,
	})
	require.NoError(t, err)

	byUser, err := d.FindByUser(ctx, 300, 1)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Pack Challenger", byUser[0].Product.Name, "the product must be preloaded")

	purchase.Validated = true
	_, err = d.Update(ctx, purchase)
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, purchase.ID))
	_, err = d.FindByID(ctx, purchase.ID)
	assert.ErrorIs(t, err, dao.ErrPurchaseNotFound)
}
