package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/errors"
	"github.com/landuse-microservice/internal/repository/postgres/testhelpers"
)

type MunicipalityRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.MunicipalityRepository
	ctx    context.Context
}

func (s *MunicipalityRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	_ = testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")

	s.repo = testhelpers.NewMunicipalityRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.ctx = context.Background()
}

func (s *MunicipalityRepositoryTestSuite) SetupTest() {
	s.NoError(s.testDB.Cleanup(s.ctx))

	rows := []struct {
		id, name, country, website string
	}{
		{"lisboa", "Lisboa", domain.CountryPT, ""},
		{"porto", "Porto", domain.CountryPT, "https://www.cm-porto.pt"},
		{"madrid", "Madrid", domain.CountryES, ""},
		{"oslo", "Oslo", "NO", ""},
	}
	for _, row := range rows {
		_, err := s.testDB.DB.ExecContext(s.ctx,
			`INSERT INTO municipalities (id, name, country, website, updated_at) VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
			row.id, row.name, row.country, row.website, time.Now())
		s.Require().NoError(err)
	}
}

func (s *MunicipalityRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *MunicipalityRepositoryTestSuite) TestListWithoutWebsite() {
	list, err := s.repo.ListWithoutWebsite(s.ctx, 10)
	s.NoError(err)
	s.Require().Len(list, 2, "only supported countries without website")

	ids := []string{list[0].ID, list[1].ID}
	s.ElementsMatch(ids, []string{"lisboa", "madrid"})
}

func (s *MunicipalityRepositoryTestSuite) TestListWithoutWebsite_Limit() {
	list, err := s.repo.ListWithoutWebsite(s.ctx, 1)
	s.NoError(err)
	s.Len(list, 1)
}

func (s *MunicipalityRepositoryTestSuite) TestGetByID() {
	m, err := s.repo.GetByID(s.ctx, "porto")
	s.NoError(err)
	s.Require().NotNil(m)
	s.Equal("Porto", m.Name)
	s.Equal("https://www.cm-porto.pt", m.Website)

	missing, err := s.repo.GetByID(s.ctx, "atlantis")
	s.NoError(err)
	s.Nil(missing)
}

func (s *MunicipalityRepositoryTestSuite) TestUpdateWebsite() {
	s.NoError(s.repo.UpdateWebsite(s.ctx, "lisboa", "https://www.lisboa.pt", domain.CountryPT))

	m, err := s.repo.GetByID(s.ctx, "lisboa")
	s.NoError(err)
	s.Require().NotNil(m)
	s.Equal("https://www.lisboa.pt", m.Website)
	s.Equal(domain.CountryPT, m.Country)
}

func (s *MunicipalityRepositoryTestSuite) TestUpdateWebsite_NotFound() {
	err := s.repo.UpdateWebsite(s.ctx, "atlantis", "https://example.com", "")
	s.ErrorIs(err, errors.ErrMunicipalityNotFound)
}

func TestMunicipalityRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MunicipalityRepositoryTestSuite))
}
