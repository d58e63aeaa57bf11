package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/booking"
	"github.com/fleetrate/fleetrate/internal/clock"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/costmodel"
	"github.com/fleetrate/fleetrate/internal/customer"
	"github.com/fleetrate/fleetrate/internal/demand"
	"github.com/fleetrate/fleetrate/internal/loyalty"
	"github.com/fleetrate/fleetrate/internal/migration"
	"github.com/fleetrate/fleetrate/internal/observability"
	"github.com/fleetrate/fleetrate/internal/pricing"
	"github.com/fleetrate/fleetrate/internal/ratelimit"
	"github.com/fleetrate/fleetrate/internal/rule"
	"github.com/fleetrate/fleetrate/internal/scheduler"
	"github.com/fleetrate/fleetrate/internal/seasonality"
	"github.com/fleetrate/fleetrate/internal/server"
	"github.com/fleetrate/fleetrate/internal/snapshot"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	"github.com/fleetrate/fleetrate/internal/utilization"
	"github.com/fleetrate/fleetrate/internal/vehicle"
	vehicledomain "github.com/fleetrate/fleetrate/internal/vehicle/domain"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	db      *gorm.DB
	node    *snowflake.Node
	baseURL string
	httpSrv *httptest.Server
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("DATABASE_TYPE", "sqlite")

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func startEnv() (*testEnv, error) {
	gormDB, err := gorm.Open(sqlite.Open("file:e2e?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	e := &testEnv{db: gormDB}

	e.app = fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		fx.Provide(func() *gorm.DB { return gormDB }),
		clock.Module,

		vehicle.Module,
		booking.Module,
		customer.Module,
		costmodel.Module,
		demand.Module,
		seasonality.Module,
		utilization.Module,
		loyalty.Module,
		rule.Module,
		snapshot.Module,
		pricing.Module,
		scheduler.Module,
		ratelimit.Module,
		migration.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Populate(&e.server, &e.node),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.app.Start(startCtx); err != nil {
		return nil, err
	}

	e.httpSrv = httptest.NewServer(e.server.Engine())
	e.baseURL = e.httpSrv.URL
	return e, nil
}

func (e *testEnv) shutdown() {
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = e.app.Stop(stopCtx)
}

func resetDatabase(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, table := range []string{
		"pricing_snapshots", "pricing_rules", "seasonal_factors",
		"city_demand_metrics", "bookings", "customers", "vehicles", "cities",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("reset table %s: %v", table, err)
		}
	}
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, payload
}

func seedVehicle(t *testing.T, dynamic bool) *vehicledomain.Vehicle {
	t.Helper()
	v := &vehicledomain.Vehicle{
		ID:                    env.node.Generate(),
		CityID:                env.node.Generate(),
		Status:                vehicledomain.StatusAvailable,
		FlatPricePerDay:       45,
		DynamicPricingEnabled: dynamic,
		DailyOperatingCost:    8,
		MonthlyFinancingCost:  240,
		PurchasePrice:         28000,
	}
	if err := env.db.Create(v).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return v
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, _ := doJSON(t, http.MethodGet, env.baseURL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_QuoteLifecycle(t *testing.T) {
	resetDatabase(t, env.db)
	v := seedVehicle(t, true)

	quoteReq := map[string]any{
		"vehicle_id": v.ID.String(),
		"start_date": time.Now().UTC().AddDate(0, 0, 14).Format(time.RFC3339),
		"end_date":   time.Now().UTC().AddDate(0, 0, 21).Format(time.RFC3339),
		"persist":    true,
	}
	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes", quoteReq)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for quote, got %d: %s", resp.StatusCode, string(body))
	}

	var quote struct {
		Data struct {
			PricePerDay  float64 `json:"price_per_day"`
			TotalPrice   float64 `json:"total_price"`
			DurationDays int     `json:"duration_days"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.Data.PricePerDay <= 0 || quote.Data.DurationDays != 7 {
		t.Fatalf("unexpected quote: %+v", quote.Data)
	}

	var count int64
	if err := env.db.Model(&snapshotdomain.PricingSnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("count snapshots: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 snapshot, got %d", count)
	}

	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/v1/vehicles/"+v.ID.String()+"/snapshots", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for snapshots, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2E_FixedPriceRuleWins(t *testing.T) {
	resetDatabase(t, env.db)
	v := seedVehicle(t, true)

	ruleReq := map[string]any{
		"name":        "fleet promo",
		"vehicle_id":  v.ID.String(),
		"fixed_price": 39.0,
		"priority":    10,
	}
	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/rules", ruleReq)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for rule create, got %d: %s", resp.StatusCode, string(body))
	}

	quoteReq := map[string]any{
		"vehicle_id": v.ID.String(),
		"start_date": time.Now().UTC().AddDate(0, 0, 14).Format(time.RFC3339),
		"end_date":   time.Now().UTC().AddDate(0, 0, 17).Format(time.RFC3339),
	}
	resp, body = doJSON(t, http.MethodPost, env.baseURL+"/v1/quotes", quoteReq)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for quote, got %d: %s", resp.StatusCode, string(body))
	}

	var quote struct {
		Data struct {
			PricePerDay float64 `json:"price_per_day"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.Data.PricePerDay != 39.0 {
		t.Fatalf("expected rule price 39.00, got %v", quote.Data.PricePerDay)
	}
}

func TestE2E_ManualJobRun(t *testing.T) {
	resetDatabase(t, env.db)

	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/v1/jobs/snapshot_retention/run", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for job run, got %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = doJSON(t, http.MethodPost, env.baseURL+"/v1/jobs/defragment_fleet/run", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown job, got %d", resp.StatusCode)
	}
}
