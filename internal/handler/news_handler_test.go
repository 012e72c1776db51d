package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"rivalwatch/internal/access"
	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeNewsStore struct {
	items []model.NewsItemWithCompany

	listCalls   int
	globalCalls int
	listedIDs   []int64

	err error
}

func (f *fakeNewsStore) ListNewsByCompanyIDs(ids []int64, limit, offset int) ([]model.NewsItemWithCompany, error) {
	f.listCalls++
	f.listedIDs = ids
	return f.items, f.err
}

func (f *fakeNewsStore) CountNewsByCompanyIDs(ids []int64) (int, error) {
	return len(f.items), f.err
}

func (f *fakeNewsStore) ListGlobalNews(limit, offset int) ([]model.NewsItemWithCompany, error) {
	f.globalCalls++
	return f.items, f.err
}

func (f *fakeNewsStore) CountGlobalNews() (int, error) {
	return len(f.items), f.err
}

func newsEntities() *fakeEntityStore {
	entities := testEntities()
	entities.news = map[int64]*model.NewsItemWithCompany{
		10: {
			NewsItem: model.NewsItem{ID: 10, CompanyID: 100, Headline: "Private launch"},
			Company:  model.Company{ID: 100, OwnerID: ownerID(7), Name: "Initech"},
		},
		11: {
			NewsItem: model.NewsItem{ID: 11, CompanyID: 102, Headline: "Public filing"},
			Company:  model.Company{ID: 102, Name: "Globex"},
		},
	}
	return entities
}

func newNewsTestRouter(entities *fakeEntityStore, store NewsStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := access.NewResolver(entities, access.NewOwnedIDCache(time.Minute), false)
	r := gin.New()
	h := NewNewsHandler(store, resolver)
	r.GET("/news", h.ListNews)
	r.GET("/news/:id", h.GetNewsItem)
	return r
}

func TestGetNewsItem_VisibilityFollowsCompany(t *testing.T) {
	r := newNewsTestRouter(newsEntities(), &fakeNewsStore{})

	w := doRequest(r, "GET", "/news/10", "", "7")
	assert.Equal(t, w.Code, http.StatusOK)

	var res NewsItemResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Headline, "Private launch")
	assert.Equal(t, res.CompanyName, "Initech")

	w = doRequest(r, "GET", "/news/10", "", "8")
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestGetNewsItem_GlobalVisibleToAnonymous(t *testing.T) {
	r := newNewsTestRouter(newsEntities(), &fakeNewsStore{})

	w := doRequest(r, "GET", "/news/11", "", "")
	assert.Equal(t, w.Code, http.StatusOK)
}

func TestGetNewsItem_MalformedIDIsNotFound(t *testing.T) {
	r := newNewsTestRouter(newsEntities(), &fakeNewsStore{})

	missing := doRequest(r, "GET", "/news/999", "", "7")
	malformed := doRequest(r, "GET", "/news/xyz", "", "7")

	assert.Equal(t, missing.Code, http.StatusNotFound)
	assert.Equal(t, malformed.Code, http.StatusNotFound)
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
}

func TestListNews_RestrictedToOwnedScope(t *testing.T) {
	store := &fakeNewsStore{}
	r := newNewsTestRouter(newsEntities(), store)

	w := doRequest(r, "GET", "/news", "", "7")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, store.listedIDs, []int64{100})
}

func TestListNews_EmptyResultSkipsStore(t *testing.T) {
	store := &fakeNewsStore{}
	r := newNewsTestRouter(newsEntities(), store)

	w := doRequest(r, "GET", "/news", "", "8")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, store.listCalls, 0)
	assert.Equal(t, store.globalCalls, 0)
}

func TestListNews_AnonymousListsGlobal(t *testing.T) {
	store := &fakeNewsStore{}
	r := newNewsTestRouter(newsEntities(), store)

	w := doRequest(r, "GET", "/news", "", "")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, store.globalCalls, 1)
	assert.Equal(t, store.listCalls, 0)
}

func TestListNews_InvalidExplicitIDs(t *testing.T) {
	store := &fakeNewsStore{}
	r := newNewsTestRouter(newsEntities(), store)

	w := doRequest(r, "GET", "/news?ids=100", "", "8")
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, store.listCalls, 0)
}
