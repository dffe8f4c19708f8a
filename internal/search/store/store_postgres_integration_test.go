//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	contactsmodels "calldex/internal/contacts/models"
	contactsstore "calldex/internal/contacts/store"
	directorymodels "calldex/internal/directory/models"
	directorystore "calldex/internal/directory/store"
	registrystore "calldex/internal/registry/store"
	"calldex/internal/search/store"
	id "calldex/pkg/domain"
	"calldex/pkg/platform/sentinel"
	"calldex/pkg/testutil/containers"
)

type SearchPostgresSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.Postgres
	registry  *registrystore.Postgres
	contacts  *contactsstore.Postgres
	directory *directorystore.Postgres
}

func TestSearchPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SearchPostgresSuite))
}

func (s *SearchPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.registry = registrystore.NewPostgres(s.postgres.Pool)
	s.contacts = contactsstore.NewPostgres(s.postgres.Pool)
	s.directory = directorystore.NewPostgres(s.postgres.Pool)
}

func (s *SearchPostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *SearchPostgresSuite) addAlias(ownerID id.UserID, name, number string) {
	ctx := context.Background()
	entry, err := s.registry.ResolveOrCreate(ctx, number)
	s.Require().NoError(err)
	s.Require().NoError(s.contacts.Create(ctx, &contactsmodels.Contact{
		ID:            id.NewContactID(),
		UserID:        ownerID,
		PhoneNumberID: entry.ID,
		Name:          name,
	}))
}

func (s *SearchPostgresSuite) addAccount(email, phone string, verified bool) {
	s.Require().NoError(s.directory.CreateUser(context.Background(), &directorymodels.User{
		ID:           id.NewUserID(),
		Name:         "Account " + email,
		Email:        email,
		PasswordHash: "x",
		PhoneNumber:  phone,
		IsVerified:   verified,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}))
}

func (s *SearchPostgresSuite) TestNameTiers() {
	ctx := context.Background()
	owner := id.NewUserID()
	s.addAlias(owner, "Bob", "9193330001")
	s.addAlias(owner, "Bobby", "9193330002")
	s.addAlias(owner, "NotBob", "9193330003")

	prefix, err := s.store.MatchNamePrefix(ctx, "Bob")
	s.Require().NoError(err)
	s.Require().Len(prefix, 2)
	s.Equal("Bob", prefix[0].Name)
	s.Equal("Bobby", prefix[1].Name)

	contains, err := s.store.MatchNameContains(ctx, "Bob")
	s.Require().NoError(err)
	s.Require().Len(contains, 1)
	s.Equal("NotBob", contains[0].Name)
}

func (s *SearchPostgresSuite) TestNumberMatchCarriesSpamCount() {
	ctx := context.Background()
	s.addAlias(id.NewUserID(), "Telemarketer", "9193330004")

	entry, err := s.registry.FindByNumber(ctx, "9193330004")
	s.Require().NoError(err)
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.registry.IncrementSpamCount(ctx, entry.ID))
	}

	rows, err := s.store.MatchNumber(ctx, "9193330004")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(3, rows[0].SpamCount)
}

func (s *SearchPostgresSuite) TestLikeMetacharactersMatchLiterally() {
	ctx := context.Background()
	owner := id.NewUserID()
	s.addAlias(owner, "100% Spam", "9193330005")
	s.addAlias(owner, "Plain Name", "9193330006")

	rows, err := s.store.MatchNameContains(ctx, "%")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal("100% Spam", rows[0].Name)
}

func (s *SearchPostgresSuite) TestEmailFor() {
	ctx := context.Background()
	owner := id.NewUserID()
	stranger := id.NewUserID()

	s.addAlias(owner, "Carol", "9193330007")
	s.addAccount("carol@example.com", "9193330007", true)

	email, err := s.store.EmailFor(ctx, owner, "9193330007")
	s.Require().NoError(err)
	s.Equal("carol@example.com", email)

	// Visibility runs through the requesting user's own alias.
	_, err = s.store.EmailFor(ctx, stranger, "9193330007")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Unverified accounts stay invisible.
	s.addAlias(owner, "Dave", "9193330008")
	s.addAccount("dave@example.com", "9193330008", false)
	_, err = s.store.EmailFor(ctx, owner, "9193330008")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
