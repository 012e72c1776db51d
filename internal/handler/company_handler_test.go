package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"rivalwatch/internal/access"
	"rivalwatch/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

// fakeEntityStore backs a real access.Resolver so handler tests
// exercise the actual visibility rules.
type fakeEntityStore struct {
	companies   map[int64]*model.Company
	news        map[int64]*model.NewsItemWithCompany
	prefs       map[int64][]int64
	subscribers map[int64][]int64

	ownedQueries int
}

func (f *fakeEntityStore) GetCompany(id int64) (*model.Company, error) {
	return f.companies[id], nil
}

func (f *fakeEntityStore) ListCompanyIDsByOwner(ownerID int64) ([]int64, error) {
	f.ownedQueries++

	var ids []int64
	for _, c := range f.companies {
		if c.OwnerID != nil && *c.OwnerID == ownerID {
			ids = append(ids, c.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeEntityStore) GetNewsItemWithCompany(id int64) (*model.NewsItemWithCompany, error) {
	return f.news[id], nil
}

func (f *fakeEntityStore) GetUserPreferences(userID int64) (*model.UserPreferences, error) {
	return &model.UserPreferences{UserID: userID, SubscribedCompanyIDs: f.prefs[userID]}, nil
}

func (f *fakeEntityStore) SubscribersByCompanyIDs(companyIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64)
	for _, id := range companyIDs {
		if users, ok := f.subscribers[id]; ok {
			result[id] = users
		}
	}
	return result, nil
}

type fakeCompanyStore struct {
	companies []model.Company
	counts    []model.CompanyNewsCount
	created   bool
	renamed   bool

	listCalls   int
	globalCalls int
	deleted     []int64

	err error
}

func (f *fakeCompanyStore) ListCompaniesByIDs(ids []int64, limit, offset int) ([]model.Company, error) {
	f.listCalls++
	return f.companies, f.err
}

func (f *fakeCompanyStore) CountCompaniesByIDs(ids []int64) (int, error) {
	return len(f.companies), f.err
}

func (f *fakeCompanyStore) ListGlobalCompanies(limit, offset int) ([]model.Company, error) {
	f.globalCalls++
	return f.companies, f.err
}

func (f *fakeCompanyStore) CountGlobalCompanies() (int, error) {
	return len(f.companies), f.err
}

func (f *fakeCompanyStore) CreateCompany(c *model.Company) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if !f.created {
		return false, nil
	}
	c.ID = 1
	c.CreatedAt = time.Now()
	return true, nil
}

func (f *fakeCompanyStore) RenameCompany(id int64, name string) (bool, error) {
	return f.renamed, f.err
}

func (f *fakeCompanyStore) DeleteCompany(id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeCompanyStore) CountNewsByCompany(ids []int64) ([]model.CompanyNewsCount, error) {
	f.listCalls++
	return f.counts, f.err
}

func (f *fakeCompanyStore) CountGlobalNewsByCompany() ([]model.CompanyNewsCount, error) {
	f.globalCalls++
	return f.counts, f.err
}

var errDown = errors.New("DB down")

func testEntities() *fakeEntityStore {
	return &fakeEntityStore{
		companies: map[int64]*model.Company{
			100: {ID: 100, OwnerID: ownerID(7), Name: "Initech"},
			102: {ID: 102, Name: "Globex"},
		},
		prefs: map[int64][]int64{},
	}
}

func ownerID(id int64) *int64 {
	return &id
}

func newCompanyTestRouter(entities *fakeEntityStore, store CompanyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := access.NewResolver(entities, access.NewOwnedIDCache(time.Minute), false)
	r := gin.New()
	h := NewCompanyHandler(store, resolver)
	r.GET("/companies", h.ListCompanies)
	r.GET("/companies/stats", h.GetCompanyStats)
	r.GET("/companies/:id", h.GetCompany)
	r.POST("/companies", h.CreateCompany)
	r.PUT("/companies/:id", h.RenameCompany)
	r.DELETE("/companies/:id", h.DeleteCompany)
	r.GET("/health", h.GetHealth)
	return r
}

func doRequest(r *gin.Engine, method, target, body string, userID string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCompany_OwnerSeesOwnCompany(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{})

	w := doRequest(r, "GET", "/companies/100", "", "7")
	assert.Equal(t, w.Code, http.StatusOK)

	var res CompanyResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Name, "Initech")
	assert.Equal(t, res.Global, false)
}

func TestGetCompany_NotFoundIsUniform(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{})

	missing := doRequest(r, "GET", "/companies/999", "", "8")
	foreign := doRequest(r, "GET", "/companies/100", "", "8")
	malformed := doRequest(r, "GET", "/companies/abc", "", "8")

	assert.Equal(t, missing.Code, http.StatusNotFound)
	assert.Equal(t, foreign.Code, http.StatusNotFound)
	assert.Equal(t, malformed.Code, http.StatusNotFound)

	// Identical bodies: the response must not reveal which case it was.
	assert.Equal(t, missing.Body.String(), foreign.Body.String())
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
}

func TestListCompanies_EmptyResultSkipsStore(t *testing.T) {
	store := &fakeCompanyStore{}
	r := newCompanyTestRouter(testEntities(), store)

	// User 8 owns nothing: deliberate empty result, no query issued.
	w := doRequest(r, "GET", "/companies", "", "8")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, store.listCalls, 0)
	assert.Equal(t, store.globalCalls, 0)

	var res CompaniesResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Total, 0)
	assert.Equal(t, len(res.Companies), 0)
}

func TestListCompanies_AnonymousListsGlobal(t *testing.T) {
	store := &fakeCompanyStore{companies: []model.Company{{ID: 102, Name: "Globex"}}}
	r := newCompanyTestRouter(testEntities(), store)

	w := doRequest(r, "GET", "/companies", "", "")
	assert.Equal(t, w.Code, http.StatusOK)
	assert.Equal(t, store.globalCalls, 1)
	assert.Equal(t, store.listCalls, 0)
}

func TestListCompanies_InvalidExplicitIDs(t *testing.T) {
	store := &fakeCompanyStore{}
	r := newCompanyTestRouter(testEntities(), store)

	// Company 100 is not visible to user 8.
	w := doRequest(r, "GET", "/companies?ids=100,102", "", "8")
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, store.listCalls, 0)

	var res struct {
		IDs []string `json:"ids"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.IDs, []string{"100"})
}

func TestGetCompanyStats_UsesFilterSet(t *testing.T) {
	store := &fakeCompanyStore{counts: []model.CompanyNewsCount{{CompanyID: 100, CompanyName: "Initech", ItemCount: 3}}}
	r := newCompanyTestRouter(testEntities(), store)

	w := doRequest(r, "GET", "/companies/stats", "", "7")
	assert.Equal(t, w.Code, http.StatusOK)

	var res StatsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, len(res.Stats), 1)
	assert.Equal(t, res.Stats[0].NewsCount, 3)
}

func TestCreateCompany_RequiresAuth(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{})

	w := doRequest(r, "POST", "/companies", `{"name":"NewCo"}`, "")
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}

func TestCreateCompany_Conflict(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{created: false})

	w := doRequest(r, "POST", "/companies", `{"name":"Initech"}`, "7")
	assert.Equal(t, w.Code, http.StatusConflict)
}

func TestCreateCompany_EvictsOwnedCache(t *testing.T) {
	entities := testEntities()
	store := &fakeCompanyStore{created: true}
	r := newCompanyTestRouter(entities, store)

	doRequest(r, "GET", "/companies", "", "7")
	assert.Equal(t, entities.ownedQueries, 1)

	// A second list would be served from cache, but create evicts.
	doRequest(r, "POST", "/companies", `{"name":"NewCo"}`, "7")
	doRequest(r, "GET", "/companies", "", "7")
	assert.Equal(t, entities.ownedQueries, 2)
}

func TestRenameCompany_ForeignOwnedIsNotFound(t *testing.T) {
	store := &fakeCompanyStore{renamed: true}
	r := newCompanyTestRouter(testEntities(), store)

	w := doRequest(r, "PUT", "/companies/100", `{"name":"Stolen"}`, "8")
	assert.Equal(t, w.Code, http.StatusNotFound)
}

func TestRenameCompany_GlobalIsReadOnly(t *testing.T) {
	store := &fakeCompanyStore{renamed: true}
	r := newCompanyTestRouter(testEntities(), store)

	w := doRequest(r, "PUT", "/companies/102", `{"name":"Hijacked"}`, "8")
	assert.Equal(t, w.Code, http.StatusForbidden)
}

func TestDeleteCompany_ResolvesBeforeTouching(t *testing.T) {
	store := &fakeCompanyStore{}
	r := newCompanyTestRouter(testEntities(), store)

	w := doRequest(r, "DELETE", "/companies/100", "", "8")
	assert.Equal(t, w.Code, http.StatusNotFound)
	assert.Equal(t, len(store.deleted), 0)

	w = doRequest(r, "DELETE", "/companies/100", "", "7")
	assert.Equal(t, w.Code, http.StatusNoContent)
	assert.Equal(t, store.deleted, []int64{100})
}

func TestGetHealth_Healthy(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{})

	w := doRequest(r, "GET", "/health", "", "")
	assert.Equal(t, w.Code, http.StatusOK)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res["status"], "healthy")
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newCompanyTestRouter(testEntities(), &fakeCompanyStore{err: errDown})

	w := doRequest(r, "GET", "/health", "", "")
	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
}
