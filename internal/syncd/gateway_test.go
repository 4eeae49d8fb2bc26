package syncd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/canevoj/standarium/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	g, err := NewGateway(db, "test-secret")
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return g
}

func signedIn(t *testing.T, g *Gateway) (*Session, string) {
	t.Helper()
	sess, token, err := g.SignUp("dono@loja.com.br", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return sess, token
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestAuthErrorMapping(t *testing.T) {
	g := newTestGateway(t)

	if _, _, err := g.SignUp("not-an-email", "secret123"); err != ErrInvalidEmail {
		t.Fatalf("malformed identifier: got %v", err)
	}
	if _, _, err := g.SignUp("a@b.co", "12345"); err != ErrWeakPassword {
		t.Fatalf("weak secret: got %v", err)
	}

	if _, _, err := g.SignUp("dono@loja.com.br", "secret123"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, _, err := g.SignUp("dono@loja.com.br", "secret123"); err != ErrEmailInUse {
		t.Fatalf("duplicate account: got %v", err)
	}

	if _, _, err := g.SignIn("outra@loja.com.br", "secret123"); err != ErrAccountNotFound {
		t.Fatalf("account not found: got %v", err)
	}
	if _, _, err := g.SignIn("dono@loja.com.br", "wrong-pass"); err != ErrWrongPassword {
		t.Fatalf("wrong credential: got %v", err)
	}
	if _, _, err := g.SignIn("dono@loja.com.br", "secret123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func TestAuthenticateTokenRoundTrip(t *testing.T) {
	g := newTestGateway(t)
	sess, token := signedIn(t, g)

	got, err := g.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.UserID != sess.UserID {
		t.Fatalf("authenticated wrong principal: %d != %d", got.UserID, sess.UserID)
	}

	if _, err := g.Authenticate("garbage.token.value"); err != ErrAuthRequired {
		t.Fatalf("bad token: got %v", err)
	}
}

func TestSignOutTearsDownSession(t *testing.T) {
	g := newTestGateway(t)
	sess, token := signedIn(t, g)

	g.SignOut(sess)

	if _, err := g.Authenticate(token); err != ErrAuthRequired {
		t.Fatalf("token survived sign-out: %v", err)
	}
	if !sess.Closed() {
		t.Fatal("session not closed")
	}
	if got := sess.Store().GetProducts(); len(got) != 0 {
		t.Fatalf("cached collections not cleared: %+v", got)
	}
}

func TestSaveRequiresAuthenticatedPrincipal(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)
	g.SignOut(sess)

	if _, err := g.Save(sess, domain.CollectionProducts, &domain.Product{Name: "X"}, 0); err != ErrAuthRequired {
		t.Fatalf("save on closed session: got %v", err)
	}
	if err := g.Remove(sess, domain.CollectionProducts, 1); err != ErrAuthRequired {
		t.Fatalf("remove on closed session: got %v", err)
	}
	if _, err := g.Save(nil, domain.CollectionProducts, &domain.Product{Name: "X"}, 0); err != ErrAuthRequired {
		t.Fatalf("save with nil session: got %v", err)
	}
}

func TestSavePushesSnapshotToStore(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	id, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:           "SSD NVMe 1TB",
		Kind:           domain.KindForSale,
		CostTotal:      300,
		Qty:            2,
		SuggestedPrice: floatPtr(250),
		PurchaseDate:   "2026-08-01",
		Status:         domain.StatusInStock,
	}, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == 0 {
		t.Fatal("save returned zero id")
	}

	got := sess.Store().GetProducts()
	if len(got) != 1 || got[0].ID != id || got[0].Name != "SSD NVMe 1TB" {
		t.Fatalf("snapshot not delivered: %+v", got)
	}
	if got[0].UpdatedAt.IsZero() {
		t.Fatal("update timestamp not stamped")
	}
}

func TestConsumptionRoundTripForcesInvariants(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	// The form claims a sold status and sale fields; kind=consumption must
	// override all of it.
	id, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:           "Fita isolante",
		Kind:           domain.KindConsumption,
		CostTotal:      12,
		Qty:            3,
		SuggestedPrice: floatPtr(99),
		Status:         domain.StatusSold,
		SaleValue:      floatPtr(50),
		SaleDate:       strPtr("2026-08-10"),
		SaleMethod:     strPtr("pix"),
	}, 0)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got := sess.Store().GetProducts()
	if len(got) != 1 {
		t.Fatalf("snapshot size = %d", len(got))
	}
	p := got[0]
	if p.ID != id || p.Status != domain.StatusNA {
		t.Fatalf("consumption status = %q, want %q", p.Status, domain.StatusNA)
	}
	if p.SuggestedPrice != nil || p.SaleValue != nil || p.SaleDate != nil || p.SaleMethod != nil || p.QtySold != nil {
		t.Fatalf("consumption kept sale/pricing fields: %+v", p)
	}
}

func TestUpdateReplacesDocument(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	id, err := g.Save(sess, domain.CollectionServices, &domain.Service{
		Name: "Formatação", Price: 80,
	}, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := g.Save(sess, domain.CollectionServices, &domain.Service{
		Name: "Formatação completa", Price: 120,
	}, id); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := sess.Store().GetServices()
	if len(got) != 1 || got[0].ID != id || got[0].Price != 120 {
		t.Fatalf("update snapshot wrong: %+v", got)
	}

	if _, err := g.Save(sess, domain.CollectionServices, &domain.Service{Name: "x"}, 999); err != ErrNotFound {
		t.Fatalf("update missing id: got %v", err)
	}
}

func TestSaleProjectionLifecycle(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	id, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:         "Notebook usado",
		Kind:         domain.KindForSale,
		CostTotal:    1500,
		Qty:          1,
		PurchaseDate: "2026-07-05",
		Status:       domain.StatusSold,
		SaleValue:    floatPtr(2100),
		SaleDate:     strPtr("2026-08-02"),
		SaleMethod:   strPtr("marketplace"),
	}, 0)
	if err != nil {
		t.Fatalf("save sold product: %v", err)
	}

	sales := sess.Store().GetSales()
	if len(sales) != 1 || sales[0].ProductID != id || sales[0].SaleValue != 2100 {
		t.Fatalf("sale projection missing: %+v", sales)
	}

	// Moving the product back to stock drops the projection.
	if _, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:         "Notebook usado",
		Kind:         domain.KindForSale,
		CostTotal:    1500,
		Qty:          1,
		PurchaseDate: "2026-07-05",
		Status:       domain.StatusInStock,
	}, id); err != nil {
		t.Fatalf("unsell: %v", err)
	}
	if sales := sess.Store().GetSales(); len(sales) != 0 {
		t.Fatalf("sale projection not dropped: %+v", sales)
	}
}

func TestRemoveDeletesDocumentAndProjection(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	id, _ := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:       "Mouse gamer",
		Kind:       domain.KindForSale,
		CostTotal:  60,
		Qty:        1,
		Status:     domain.StatusSold,
		SaleValue:  floatPtr(90),
		SaleDate:   strPtr("2026-08-11"),
		SaleMethod: strPtr("pix"),
	}, 0)

	if err := g.Remove(sess, domain.CollectionProducts, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := sess.Store().GetProducts(); len(got) != 0 {
		t.Fatalf("product snapshot not empty: %+v", got)
	}
	if got := sess.Store().GetSales(); len(got) != 0 {
		t.Fatalf("sale projection survived delete: %+v", got)
	}
}

func TestFailedWriteLeavesPriorSnapshotIntact(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	if _, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name: "Teclado", Kind: domain.KindForSale, CostTotal: 100, Qty: 1,
		Status: domain.StatusInStock,
	}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := g.Save(sess, "bogus", &domain.Product{Name: "zz"}, 0); err != ErrUnknownCollection {
		t.Fatalf("unknown collection: got %v", err)
	}
	if got := sess.Store().GetProducts(); len(got) != 1 || got[0].Name != "Teclado" {
		t.Fatalf("prior snapshot mutated: %+v", got)
	}
	if sess.Banner() == "" {
		t.Fatal("failed write did not raise the error banner")
	}
	sess.ClearBanner()
	if sess.Banner() != "" {
		t.Fatal("banner not cleared")
	}
}

func TestSnapshotsAreScopedPerPrincipal(t *testing.T) {
	g := newTestGateway(t)
	sess1, _ := signedIn(t, g)
	sess2, _, err := g.SignUp("second@loja.com.br", "secret123")
	if err != nil {
		t.Fatalf("second sign up: %v", err)
	}

	if _, err := g.Save(sess1, domain.CollectionComponents, &domain.Component{
		Name: "Fonte 500W", Cost: 220,
	}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := sess2.Store().GetComponents(); len(got) != 0 {
		t.Fatalf("component leaked across principals: %+v", got)
	}
}

func TestSaleUpdateWithoutProductKeepsProjectionLink(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	productID, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:       "Monitor 24\"",
		Kind:       domain.KindForSale,
		CostTotal:  400,
		Qty:        1,
		Status:     domain.StatusSold,
		SaleValue:  floatPtr(650),
		SaleDate:   strPtr("2026-08-12"),
		SaleMethod: strPtr("pix"),
	}, 0)
	if err != nil {
		t.Fatalf("save sold product: %v", err)
	}

	sales := sess.Store().GetSales()
	if len(sales) != 1 {
		t.Fatalf("sale projection missing: %+v", sales)
	}

	// Edit the sale record without restating the product reference.
	if _, err := g.Save(sess, domain.CollectionSales, &domain.Sale{
		Name:       "Monitor 24\"",
		CostTotal:  400,
		SaleValue:  700,
		SaleDate:   "2026-08-12",
		SaleMethod: "cartão",
		Qty:        1,
	}, sales[0].ID); err != nil {
		t.Fatalf("update sale: %v", err)
	}

	sales = sess.Store().GetSales()
	if len(sales) != 1 || sales[0].ProductID != productID {
		t.Fatalf("projection link lost: %+v", sales)
	}

	// Re-saving the product must refresh the same row, not insert a second.
	if _, err := g.Save(sess, domain.CollectionProducts, &domain.Product{
		Name:       "Monitor 24\"",
		Kind:       domain.KindForSale,
		CostTotal:  400,
		Qty:        1,
		Status:     domain.StatusSold,
		SaleValue:  floatPtr(650),
		SaleDate:   strPtr("2026-08-12"),
		SaleMethod: strPtr("pix"),
	}, productID); err != nil {
		t.Fatalf("re-save product: %v", err)
	}
	if sales := sess.Store().GetSales(); len(sales) != 1 {
		t.Fatalf("duplicate sale after product re-save: %+v", sales)
	}
}

func TestSweepIdleClosesStaleSessions(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	sess.mu.Lock()
	sess.lastSeen = time.Now().Add(-2 * time.Hour)
	sess.mu.Unlock()

	g.SweepIdle(time.Hour)
	if !sess.Closed() {
		t.Fatal("stale session not swept")
	}
}

func TestCloseHooksRunOnTeardown(t *testing.T) {
	g := newTestGateway(t)
	sess, _ := signedIn(t, g)

	ran := 0
	sess.OnClose(func() { ran++ })

	sess.mu.Lock()
	sess.lastSeen = time.Now().Add(-2 * time.Hour)
	sess.mu.Unlock()
	g.SweepIdle(time.Hour)

	if ran != 1 {
		t.Fatalf("close hook ran %d times, want 1", ran)
	}

	// Registering after teardown runs immediately; closing again is a no-op.
	sess.OnClose(func() { ran++ })
	if ran != 2 {
		t.Fatalf("late hook ran %d times, want 2", ran)
	}
	g.SignOut(sess)
	if ran != 2 {
		t.Fatalf("hooks re-ran on second close: %d", ran)
	}
}
