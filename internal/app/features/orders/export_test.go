package orders_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/litego/internal/app/system/csvutil"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/testutil"
)

func TestServeExportCSV(t *testing.T) {
	e := newEnv(t, nil)
	host := e.fx.CreateUser(e.ctx, "Host")
	amy := e.fx.CreateUser(e.ctx, "Amy")
	order := e.fx.CreateOrder(e.ctx, "Boba", host)
	tea := e.fx.CreateItem(e.ctx, order.ID, "Tea", 30)
	e.fx.AddParticipant(e.ctx, order.ID, amy.ID, []models.CartSelection{
		{ItemID: tea.ID, ItemName: "Tea", ItemPrice: 30, Quantity: 2},
	}, 60)

	rec := call(e.h.ServeExportCSV, testutil.NewRequest(http.MethodGet, "/?lang=en"), &amy, "id", order.ID.Hex())
	rec.AssertStatus(t, http.StatusForbidden)

	rec = call(e.h.ServeExportCSV, testutil.NewRequest(http.MethodGet, "/?lang=en"), &host, "id", order.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Boba.csv") {
		t.Errorf("content disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, csvutil.BOM) {
		t.Error("body should start with a UTF-8 BOM")
	}
	if !strings.Contains(body, "Amy") || !strings.Contains(body, "Tea") {
		t.Errorf("body missing participant rows: %q", body)
	}
}

func TestHandleSummary(t *testing.T) {
	host := models.User{}
	setup := func(t *testing.T, ai *fakeAI, status models.OrderStatus) (env, models.OrderDoc) {
		e := newEnv(t, ai)
		host = e.fx.CreateUser(e.ctx, "Host")
		amy := e.fx.CreateUser(e.ctx, "Amy")
		order := e.fx.CreateOrder(e.ctx, "Boba", host, testutil.WithStatus(status))
		tea := e.fx.CreateItem(e.ctx, order.ID, "Tea", 30)
		e.fx.AddParticipant(e.ctx, order.ID, amy.ID, []models.CartSelection{
			{ItemID: tea.ID, ItemName: "Tea", ItemPrice: 30, Quantity: 1},
		}, 30)
		return e, order
	}

	t.Run("closed order", func(t *testing.T) {
		ai := &fakeAI{summary: "| Amy | Tea | 30 |"}
		e, order := setup(t, ai, models.StatusClosed)
		rec := call(e.h.HandleSummary, testutil.NewRequest(http.MethodPost, "/"), &host, "id", order.ID.Hex())
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, "| Amy | Tea | 30 |")
		if ai.got.OrderName != "Boba" || ai.got.Total != 30 || len(ai.got.Participants) != 1 {
			t.Errorf("summary input = %+v", ai.got)
		}
	})

	t.Run("open order", func(t *testing.T) {
		e, order := setup(t, &fakeAI{}, models.StatusOpen)
		rec := call(e.h.HandleSummary, testutil.NewRequest(http.MethodPost, "/"), &host, "id", order.ID.Hex())
		rec.AssertStatus(t, http.StatusConflict)
		if got := rec.ErrorCode(); got != "not_closed" {
			t.Errorf("error code = %q", got)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		e, order := setup(t, &fakeAI{err: errors.New("boom")}, models.StatusClosed)
		rec := call(e.h.HandleSummary, testutil.NewRequest(http.MethodPost, "/"), &host, "id", order.ID.Hex())
		rec.AssertStatus(t, http.StatusBadGateway)
	})

	t.Run("not configured", func(t *testing.T) {
		e := newEnv(t, nil)
		u := e.fx.CreateUser(e.ctx, "Host")
		order := e.fx.CreateOrder(e.ctx, "Boba", u, testutil.WithStatus(models.StatusClosed))
		rec := call(e.h.HandleSummary, testutil.NewRequest(http.MethodPost, "/"), &u, "id", order.ID.Hex())
		rec.AssertStatus(t, http.StatusServiceUnavailable)
	})
}
