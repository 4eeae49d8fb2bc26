package adminapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/canevoj/standarium/config"
	"github.com/canevoj/standarium/internal/aigw"
	"github.com/canevoj/standarium/internal/app"
	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/syncd"
	"github.com/canevoj/standarium/internal/webserver"
)

// testAppContext satisfies app.AppContext without the full startup path.
type testAppContext struct {
	db  *gorm.DB
	cfg *config.AppConfig
}

func (a *testAppContext) DB() *gorm.DB                        { return a.db }
func (a *testAppContext) Config() *config.AppConfig           { return a.cfg }
func (a *testAppContext) Scheduler() *cron.Cron               { return cron.New() }
func (a *testAppContext) MigrateDB() error                    { return nil }
func (a *testAppContext) InitDb()                             {}
func (a *testAppContext) OpLog(name, ip, action, desc string) {}
func (a *testAppContext) Release()                            {}

func (a *testAppContext) GetSettingsStringValue(category, key string) string { return "" }
func (a *testAppContext) GetSettingsInt64Value(category, key string) int64   { return 0 }
func (a *testAppContext) GetSettingsBoolValue(category, key string) bool     { return false }
func (a *testAppContext) Settings() *app.SettingsManager {
	return app.NewSettingsManager(a.db)
}

var setupOnce sync.Once

// The webserver routes are package-level, so build the server once and let
// every test share it with its own account.
func setupServer(t *testing.T) http.Handler {
	t.Helper()
	setupOnce.Do(func() {
		dir, err := os.MkdirTemp("", "adminapi-test")
		if err != nil {
			panic(err)
		}
		db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			panic(err)
		}
		if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
			panic(err)
		}
		gw, err := syncd.NewGateway(db, "test-secret")
		if err != nil {
			panic(err)
		}

		cfg := new(config.AppConfig)
		*cfg = *config.DefaultAppConfig
		cfg.System.Debug = false

		webserver.Init(&testAppContext{db: db, cfg: cfg}, gw, aigw.NewClient("http://127.0.0.1:1", time.Second))
		InitRouter()
	})
	return webserver.Handler()
}

var accountSeq int

func signUpAccount(t *testing.T, h http.Handler) string {
	t.Helper()
	accountSeq++
	email := fmt.Sprintf("conta%d@loja.com.br", accountSeq)
	rec := doJSON(h, http.MethodPost, "/api/auth/signup", "",
		map[string]string{"email": email, "password": "correct-horse"})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body.String())
	}
	var rsp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rsp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return rsp.Data.Token
}

func doJSON(h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	h := setupServer(t)
	rec := doJSON(h, http.MethodGet, "/api/products", "", nil)
	if rec.Code != http.StatusUnauthorized && rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want unauthorized", rec.Code)
	}
}

func TestClientConfigIsPublic(t *testing.T) {
	h := setupServer(t)
	rec := doJSON(h, http.MethodGet, "/api/client-config", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "api_base") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	rec := doJSON(h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "SSD 480GB", "kind": domain.KindForSale,
		"cost_total": 120.0, "qty": 2, "status": domain.StatusInStock,
		"purchase_date": "2026-08-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodGet, "/api/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var listRsp struct {
		Data []domain.Product `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listRsp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listRsp.Data) != 1 || listRsp.Data[0].Name != "SSD 480GB" {
		t.Fatalf("list = %+v", listRsp.Data)
	}
	id := listRsp.Data[0].ID

	rec = doJSON(h, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodGet, "/api/products", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &listRsp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listRsp.Data) != 0 {
		t.Fatalf("expected empty list after delete: %+v", listRsp.Data)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	rec := doJSON(h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Notebook", "kind": domain.KindForSale,
		"cost_total": 1000.0, "qty": 1, "status": domain.StatusSold,
		"purchase_date": "2026-07-01",
		"sale_value":    1500.0, "sale_date": "2026-08-10", "sale_method": "pix",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodGet, "/api/dashboard?period=all-time", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d: %s", rec.Code, rec.Body.String())
	}
	var rsp struct {
		Data struct {
			Revenue float64 `json:"revenue"`
			Profit  float64 `json:"profit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rsp); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if rsp.Data.Revenue != 1500 || rsp.Data.Profit != 500 {
		t.Fatalf("dashboard = %+v", rsp.Data)
	}
}

func TestChecklistQuoteEndpoint(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	for _, comp := range []map[string]interface{}{
		{"name": "SSD", "cost": 10.0},
		{"name": "Memória", "cost": 20.0},
	} {
		rec := doJSON(h, http.MethodPost, "/api/components", token, comp)
		if rec.Code != http.StatusOK {
			t.Fatalf("create component: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(h, http.MethodGet, "/api/checklist", token, nil)
	var listRsp struct {
		Data []domain.Component `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listRsp); err != nil {
		t.Fatalf("decode checklist: %v", err)
	}
	ids := []string{}
	for _, comp := range listRsp.Data {
		ids = append(ids, fmt.Sprintf("%d", comp.ID))
	}
	if len(ids) != 2 {
		t.Fatalf("checklist = %+v", listRsp.Data)
	}

	rec = doJSON(h, http.MethodPost, "/api/checklist/quote", token, map[string]interface{}{
		"checked_ids": []int64{listRsp.Data[0].ID, listRsp.Data[1].ID},
		"labor":       5.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("quote status = %d: %s", rec.Code, rec.Body.String())
	}
	var quoteRsp struct {
		Data struct {
			TotalCost      float64 `json:"total_cost"`
			SuggestedPrice float64 `json:"suggested_price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &quoteRsp); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quoteRsp.Data.TotalCost != 30 || quoteRsp.Data.SuggestedPrice != 45.5 {
		t.Fatalf("quote = %+v", quoteRsp.Data)
	}
}

func TestReportExportCSVOverHTTP(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	rec := doJSON(h, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Fonte 500W", "kind": domain.KindForSale,
		"cost_total": 200.0, "qty": 1, "status": domain.StatusInStock,
		"purchase_date": "2026-08-01", "purchase_method": "pix",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodGet, "/api/reports/purchases/export?format=csv", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.Bytes()
	if body[0] != 0xEF || body[1] != 0xBB || body[2] != 0xBF {
		t.Fatal("csv export missing BOM")
	}
	if !strings.Contains(string(body), `"Fonte 500W"`) {
		t.Fatalf("csv body = %s", body)
	}
}

func TestImportProductsOverHTTP(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "produtos.csv")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(fw, "Item,Tipo,Custo,Quantidade,Preço Sugerido,Data Compra,Método\n"+
		"Teclado mecânico,Produto para Venda,180,1,250,2026-08-05,pix\n")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}

	listRec := doJSON(h, http.MethodGet, "/api/products", token, nil)
	var listRsp struct {
		Data []domain.Product `json:"data"`
	}
	if err := json.Unmarshal(listRec.Body.Bytes(), &listRsp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listRsp.Data) != 1 || listRsp.Data[0].Name != "Teclado mecânico" {
		t.Fatalf("imported products = %+v", listRsp.Data)
	}
}

func TestAIFallbackWhenBackendUnreachable(t *testing.T) {
	h := setupServer(t)
	token := signUpAccount(t, h)

	rec := doJSON(h, http.MethodPost, "/api/generate-text", token,
		map[string]string{"prompt": "oi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"fallback":true`) {
		t.Fatalf("expected fallback payload: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "gerar o texto") {
		t.Fatalf("expected generation fallback copy: %s", rec.Body.String())
	}
}

func TestIdleSweepPrunesRendererRegistry(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sweep.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	gw, err := syncd.NewGateway(db, "sweep-secret")
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	sess, _, err := gw.SignUp("varredura@loja.com.br", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	rendererFor(sess)
	renderersMu.Lock()
	_, attached := renderers[sess]
	renderersMu.Unlock()
	if !attached {
		t.Fatal("renderer not registered")
	}

	time.Sleep(5 * time.Millisecond)
	gw.SweepIdle(time.Millisecond)

	renderersMu.Lock()
	_, attached = renderers[sess]
	renderersMu.Unlock()
	if attached {
		t.Fatal("swept session still pinned in the renderer registry")
	}
}
