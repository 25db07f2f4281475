package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Fundingift/internal/model"
	"Fundingift/internal/pkg"
	"Fundingift/internal/repository/redis"
	"Fundingift/internal/service"
	"Fundingift/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type apiFixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	cat    testutil.Catalog
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pkg.SetAccessSecret("router-test")

	db := testutil.SetupTestDB(t)
	_, rdb := testutil.SetupRedis(t)
	log := zap.NewNop()
	friends := service.NewFriendService(db, redis.NewFriendCacheRepository(rdb, time.Hour), log)
	fanout := service.NewNotificationFanout(db, friends, log)
	lc := service.NewLifecycle(testutil.FixedClock, time.UTC)

	engine := InitRouter(Deps{
		Friends:  friends,
		Fundings: service.NewFundingService(db, friends, fanout, lc, log),
		Feed:     service.NewFeedService(db, friends, log),
		Log:      log,
	})
	return &apiFixture{t: t, db: db, engine: engine, cat: testutil.SeedCatalog(t, db)}
}

func (f *apiFixture) do(method, path string, body any, consumerID uint64) (*httptest.ResponseRecorder, envelope) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if consumerID != 0 {
		tok, err := pkg.GenerateAccess(consumerID, time.Minute)
		require.NoError(f.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (f *apiFixture) createBody(private bool) map[string]any {
	return map[string]any{
		"product_id":              f.cat.Product.ID,
		"product_option_id":       f.cat.Options[0].ID,
		"anniversary_category_id": f.cat.Category.ID,
		"title":                   "earbuds",
		"start_date":              "2026-10-18",
		"anniversary_date":        "2026-10-20",
		"end_date":                "2026-10-23",
		"is_private":              private,
	}
}

func TestRouter_Healthz(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresAuth(t *testing.T) {
	f := newAPIFixture(t)
	w, env := f.do(http.MethodGet, "/api/fundings/me", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", env.Code)

	w, _ = f.do(http.MethodGet, "/api/friends", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_PrivateFundingFlow(t *testing.T) {
	f := newAPIFixture(t)
	one := testutil.SeedConsumer(t, f.db, "one")
	two := testutil.SeedConsumer(t, f.db, "two")
	testutil.SeedFriends(t, f.db, one.ID, two.ID, false, false)

	w, env := f.do(http.MethodPost, "/api/fundings", f.createBody(true), one.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID              uint64 `json:"id"`
		Status          string `json:"status"`
		AnniversaryDate string `json:"anniversary_date"`
		ConsumerName    string `json:"consumer_name"`
		ProductName     string `json:"product_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, string(model.FundingInProgress), created.Status)
	assert.Equal(t, "2026-10-20", created.AnniversaryDate)
	assert.Equal(t, "one", created.ConsumerName)
	assert.Equal(t, f.cat.Product.Name, created.ProductName)

	detail := fmt.Sprintf("/api/fundings/%d", created.ID)
	w, env = f.do(http.MethodGet, detail, nil, two.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pkg.ErrNotFavorite.Code, env.Code)

	w, env = f.do(http.MethodPut, fmt.Sprintf("/api/friends/%d/toggle-favorite", two.ID), nil, one.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_favorite":true}`, string(env.Data))

	w, _ = f.do(http.MethodGet, detail, nil, two.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	// 进行中的不能删
	w, env = f.do(http.MethodDelete, detail, nil, one.ID)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, pkg.ErrFundingNotDeletable.Code, env.Code)

	w, env = f.do(http.MethodDelete, detail, nil, two.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pkg.ErrUnauthorized.Code, env.Code)
}

func TestRouter_CreateValidation(t *testing.T) {
	f := newAPIFixture(t)
	owner := testutil.SeedConsumer(t, f.db, "owner")

	body := f.createBody(false)
	delete(body, "end_date")
	w, env := f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, pkg.ErrInvalidParam.Code, env.Code)

	body = f.createBody(false)
	body["start_date"] = "18/10/2026"
	w, _ = f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = f.createBody(false)
	body["end_date"] = "2026-10-26"
	w, env = f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, pkg.ErrDurationTooLong.Code, env.Code)

	body = f.createBody(false)
	body["product_option_id"] = f.cat.OtherOption.ID
	w, env = f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, pkg.ErrProductOptionMismatch.Code, env.Code)

	body = f.createBody(false)
	body["product_id"] = 9999
	w, env = f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, pkg.ErrProductNotFound.Code, env.Code)
}

func TestRouter_DeletePreProgress(t *testing.T) {
	f := newAPIFixture(t)
	owner := testutil.SeedConsumer(t, f.db, "owner")
	body := f.createBody(false)
	body["start_date"], body["anniversary_date"], body["end_date"] = "2026-10-19", "2026-10-19", "2026-10-19"

	w, env := f.do(http.MethodPost, "/api/fundings", body, owner.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, string(model.FundingPreProgress), created.Status)

	path := fmt.Sprintf("/api/fundings/%d", created.ID)
	w, _ = f.do(http.MethodDelete, path, nil, owner.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = f.do(http.MethodGet, path, nil, owner.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, pkg.ErrFundingNotFound.Code, env.Code)

	w, _ = f.do(http.MethodDelete, "/api/fundings/abc", nil, owner.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ListsAndCalendar(t *testing.T) {
	f := newAPIFixture(t)
	viewer := testutil.SeedConsumer(t, f.db, "viewer")
	friend := testutil.SeedConsumer(t, f.db, "friend")
	testutil.SeedFriends(t, f.db, friend.ID, viewer.ID, false, true)
	for i := 0; i < 3; i++ {
		testutil.SeedFunding(t, f.db, model.Funding{
			ConsumerID:      friend.ID,
			ProductID:       f.cat.Product.ID,
			Status:          model.FundingInProgress,
			AnniversaryDate: testutil.Today.AddDate(0, 0, i),
		})
	}

	type page struct {
		List    []json.RawMessage `json:"list"`
		HasNext bool              `json:"has_next"`
	}

	w, env := f.do(http.MethodGet, "/api/fundings/feeds?size=2", nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var p page
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Len(t, p.List, 2)
	assert.True(t, p.HasNext)

	w, env = f.do(http.MethodGet, fmt.Sprintf("/api/fundings/friends/%d?keyword=earbuds", friend.ID), nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Len(t, p.List, 3)

	w, env = f.do(http.MethodGet, "/api/fundings/me", nil, friend.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Len(t, p.List, 3)

	var list []json.RawMessage
	w, env = f.do(http.MethodGet, "/api/fundings/calendar?year=2026&month=10", nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)

	w, _ = f.do(http.MethodGet, "/api/fundings/calendar?year=2026&month=13", nil, viewer.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = f.do(http.MethodGet, "/api/fundings/calendar?year=2026", nil, viewer.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = f.do(http.MethodGet, fmt.Sprintf("/api/fundings/story/%d", friend.ID), nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)

	w, env = f.do(http.MethodGet, "/api/friends/fundings-story", nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)

	w, env = f.do(http.MethodGet, "/api/friends", nil, viewer.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"consumer_id":%d,"name":"friend","is_favorite":true}]`, friend.ID), string(env.Data))
}

func TestRouter_DeleteAllFriends(t *testing.T) {
	f := newAPIFixture(t)
	a := testutil.SeedConsumer(t, f.db, "a")
	b := testutil.SeedConsumer(t, f.db, "b")
	testutil.SeedFriends(t, f.db, a.ID, b.ID, true, true)

	w, env := f.do(http.MethodDelete, fmt.Sprintf("/api/friends/%d", a.ID), nil, b.ID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, pkg.ErrUnauthorized.Code, env.Code)

	w, env = f.do(http.MethodDelete, fmt.Sprintf("/api/friends/%d", a.ID), nil, a.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, string(env.Data))

	w, env = f.do(http.MethodPut, fmt.Sprintf("/api/friends/%d/toggle-favorite", b.ID), nil, a.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, pkg.ErrFriendNotFound.Code, env.Code)
}
