package handler_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"calldex/internal/search/handler"
	"calldex/internal/search/handler/mocks"
	"calldex/internal/search/models"
	id "calldex/pkg/domain"
	dErrors "calldex/pkg/domain-errors"
	"calldex/pkg/testutil"
)

func newRouter(service handler.Service) http.Handler {
	r := chi.NewRouter()
	handler.New(service, slog.Default()).Register(r)
	return r
}

func TestHandleSearch(t *testing.T) {
	caller := id.NewUserID()

	t.Run("matches are returned in order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockService(ctrl)
		service.EXPECT().
			Search(gomock.Any(), caller, "Bob").
			Return([]models.ScoredMatch{
				{Name: "Bob", Number: "9190000001", SpamLikelihood: 30, Email: "bob@example.com"},
				{Name: "NotBob", Number: "9170000003", SpamLikelihood: 0},
			}, nil)

		req := testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/search_contact/?query=Bob"), caller)
		rr := testutil.DoRequest(newRouter(service), req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		matches := testutil.UnmarshalResponse[[]models.ScoredMatch](t, rr)
		assert.Len(t, *matches, 2)
		assert.Equal(t, "Bob", (*matches)[0].Name)
		assert.Equal(t, "bob@example.com", (*matches)[0].Email)
		assert.Empty(t, (*matches)[1].Email)
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockService(ctrl)
		service.EXPECT().
			Search(gomock.Any(), caller, "").
			Return([]models.ScoredMatch{}, nil)

		req := testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/search_contact/"), caller)
		rr := testutil.DoRequest(newRouter(service), req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("storage failure surfaces as 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockService(ctrl)
		service.EXPECT().
			Search(gomock.Any(), caller, "Bob").
			Return(nil, dErrors.New(dErrors.CodeInternal, "failed to search contacts"))

		req := testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/search_contact/?query=Bob"), caller)
		rr := testutil.DoRequest(newRouter(service), req)

		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
		testutil.AssertErrorCode(t, rr, "internal_error")
	})
}
