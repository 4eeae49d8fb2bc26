// Package syncd implements the remote sync gateway: it owns authentication,
// one session per signed-in principal, and the snapshot path that keeps each
// session's data store mirroring the document database. Collections are
// replaced wholesale on every change; local state is never mutated
// optimistically, so a failed write simply never produces a snapshot.
package syncd

import (
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/metrics"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const bannerWriteFailed = "Ocorreu um erro ao salvar os dados."
const bannerDeleteFailed = "Ocorreu um erro ao excluir o item."

type Gateway struct {
	db       *gorm.DB
	secret   []byte
	node     *snowflake.Node
	tokenTTL time.Duration

	mu       sync.RWMutex
	sessions map[int64]*Session
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewGateway(db *gorm.DB, secret string) (*Gateway, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, errors.Wrap(err, "init id generator")
	}
	return &Gateway{
		db:       db,
		secret:   []byte(secret),
		node:     node,
		tokenTTL: 24 * time.Hour,
		sessions: make(map[int64]*Session),
	}, nil
}

func (g *Gateway) nextID() int64 {
	return g.node.Generate().Int64()
}

// SignUp creates an account and signs it in. Provider errors are translated
// to the closed user-facing set.
func (g *Gateway) SignUp(email, password string) (*Session, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrWeakPassword
	}

	var count int64
	if err := g.db.Model(&domain.SysAccount{}).Where("email = ?", email).Count(&count).Error; err != nil {
		zap.L().Error("signup query failed", zap.Error(err))
		return nil, "", ErrAuthGeneric
	}
	if count > 0 {
		return nil, "", ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("password hash failed", zap.Error(err))
		return nil, "", ErrAuthGeneric
	}
	account := domain.SysAccount{
		ID:        g.nextID(),
		Email:     email,
		Password:  string(hashed),
		LastLogin: time.Now(),
	}
	if err := g.db.Create(&account).Error; err != nil {
		zap.L().Error("signup create failed", zap.Error(err))
		return nil, "", ErrAuthGeneric
	}
	zap.L().Info("account created", zap.String("email", email))
	return g.openSession(&account)
}

// SignIn authenticates a credential pair and enters the SignedIn state,
// (re)establishing every collection subscription.
func (g *Gateway) SignIn(email, password string) (*Session, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}

	var account domain.SysAccount
	err := g.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrAccountNotFound
	}
	if err != nil {
		zap.L().Error("signin query failed", zap.Error(err))
		return nil, "", ErrAuthGeneric
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return nil, "", ErrWrongPassword
	}

	g.db.Model(&domain.SysAccount{}).Where("id = ?", account.ID).
		Update("last_login", time.Now())
	return g.openSession(&account)
}

// openSession creates (or reuses) the principal's session, issues a token,
// and delivers the initial snapshot of all four collections.
func (g *Gateway) openSession(account *domain.SysAccount) (*Session, string, error) {
	g.mu.Lock()
	sess, exists := g.sessions[account.ID]
	if !exists || sess.Closed() {
		sess = newSession(account.ID, account.Email)
		g.sessions[account.ID] = sess
	}
	metrics.ActiveSessions.Set(float64(len(g.sessions)))
	g.mu.Unlock()

	token, err := g.issueToken(account)
	if err != nil {
		zap.L().Error("token issue failed", zap.Error(err))
		return nil, "", ErrAuthGeneric
	}

	// SignedIn entry always re-establishes the collection subscriptions;
	// the initial load counts as a snapshot.
	for _, collection := range []string{
		domain.CollectionProducts,
		domain.CollectionServices,
		domain.CollectionComponents,
		domain.CollectionSales,
	} {
		if err := g.publishSnapshot(sess, collection); err != nil {
			zap.L().Error("initial snapshot failed",
				zap.String("collection", collection), zap.Error(err))
		}
	}
	return sess, token, nil
}

// SignOut tears down the principal's session: all subscriptions stop and
// cached collections are cleared.
func (g *Gateway) SignOut(sess *Session) {
	if sess == nil {
		return
	}
	g.mu.Lock()
	if current, exists := g.sessions[sess.UserID]; exists && current == sess {
		delete(g.sessions, sess.UserID)
	}
	metrics.ActiveSessions.Set(float64(len(g.sessions)))
	g.mu.Unlock()
	sess.close()
	zap.L().Info("signed out", zap.String("email", sess.Email))
}

func (g *Gateway) issueToken(account *domain.SysAccount) (string, error) {
	claims := tokenClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// Authenticate resolves a bearer token to its live session. A valid token
// whose session was torn down (sign-out, restart, idle sweep) does not
// re-enter SignedIn.
func (g *Gateway) Authenticate(tokenString string) (*Session, error) {
	claims := new(tokenClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, valid := t.Method.(*jwt.SigningMethodHMAC); !valid {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrAuthRequired
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrAuthRequired
	}

	g.mu.RLock()
	sess, exists := g.sessions[userID]
	g.mu.RUnlock()
	if !exists || sess.Closed() {
		return nil, ErrAuthRequired
	}
	sess.touch()
	return sess, nil
}

// SweepIdle tears down sessions with no authenticated request for maxIdle.
func (g *Gateway) SweepIdle(maxIdle time.Duration) {
	g.mu.Lock()
	var stale []*Session
	for userID, sess := range g.sessions {
		if time.Since(sess.LastSeen()) > maxIdle {
			delete(g.sessions, userID)
			stale = append(stale, sess)
		}
	}
	metrics.ActiveSessions.Set(float64(len(g.sessions)))
	g.mu.Unlock()

	for _, sess := range stale {
		sess.close()
		zap.L().Info("idle session swept", zap.String("email", sess.Email))
	}
}

// Save writes a document into the principal's collection: insert when
// existingID is zero, update otherwise. The write is normalized, stamped
// with the update time, and on success the full collection is re-read and
// pushed to the session store as a snapshot. Product writes also refresh the
// sale projection.
func (g *Gateway) Save(sess *Session, collection string, entity interface{}, existingID int64) (int64, error) {
	if sess == nil || sess.Closed() {
		return 0, ErrAuthRequired
	}

	id, err := g.write(sess, collection, entity, existingID)
	if err != nil {
		metrics.RemoteWriteErrors.WithLabelValues(collection).Inc()
		sess.setBanner(bannerWriteFailed)
		zap.L().Error("save failed",
			zap.String("collection", collection), zap.Error(err))
		return 0, err
	}

	if err := g.publishSnapshot(sess, collection); err != nil {
		return id, err
	}
	if collection == domain.CollectionProducts {
		// The sale projection may have changed with the product.
		if err := g.publishSnapshot(sess, domain.CollectionSales); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (g *Gateway) write(sess *Session, collection string, entity interface{}, existingID int64) (int64, error) {
	now := time.Now()
	switch collection {
	case domain.CollectionProducts:
		p, valid := entity.(*domain.Product)
		if !valid {
			return 0, ErrUnknownCollection
		}
		p.UserID = sess.UserID
		p.Normalize()
		p.UpdatedAt = now
		if existingID != 0 {
			var prev domain.Product
			if err := g.ownedRow(sess, &prev, existingID); err != nil {
				return 0, err
			}
			p.ID = prev.ID
			p.CreatedAt = prev.CreatedAt
		} else {
			p.ID = g.nextID()
			p.CreatedAt = now
		}
		if err := g.db.Save(p).Error; err != nil {
			return 0, errors.Wrap(err, "save product")
		}
		if err := g.refreshSaleProjection(sess, p); err != nil {
			return 0, err
		}
		return p.ID, nil

	case domain.CollectionServices:
		s, valid := entity.(*domain.Service)
		if !valid {
			return 0, ErrUnknownCollection
		}
		s.UserID = sess.UserID
		s.UpdatedAt = now
		if existingID != 0 {
			var prev domain.Service
			if err := g.ownedRow(sess, &prev, existingID); err != nil {
				return 0, err
			}
			s.ID = prev.ID
			s.CreatedAt = prev.CreatedAt
		} else {
			s.ID = g.nextID()
			s.CreatedAt = now
		}
		if err := g.db.Save(s).Error; err != nil {
			return 0, errors.Wrap(err, "save service")
		}
		return s.ID, nil

	case domain.CollectionComponents:
		c, valid := entity.(*domain.Component)
		if !valid {
			return 0, ErrUnknownCollection
		}
		c.UserID = sess.UserID
		c.UpdatedAt = now
		if existingID != 0 {
			var prev domain.Component
			if err := g.ownedRow(sess, &prev, existingID); err != nil {
				return 0, err
			}
			c.ID = prev.ID
			c.CreatedAt = prev.CreatedAt
		} else {
			c.ID = g.nextID()
			c.CreatedAt = now
		}
		if err := g.db.Save(c).Error; err != nil {
			return 0, errors.Wrap(err, "save component")
		}
		return c.ID, nil

	case domain.CollectionSales:
		s, valid := entity.(*domain.Sale)
		if !valid {
			return 0, ErrUnknownCollection
		}
		s.UserID = sess.UserID
		s.UpdatedAt = now
		if existingID != 0 {
			var prev domain.Sale
			if err := g.ownedRow(sess, &prev, existingID); err != nil {
				return 0, err
			}
			s.ID = prev.ID
			s.CreatedAt = prev.CreatedAt
			// An update that omits the product reference keeps the existing
			// projection link instead of re-keying the row.
			if s.ProductID == 0 {
				s.ProductID = prev.ProductID
			}
		} else {
			s.ID = g.nextID()
			s.CreatedAt = now
		}
		// Standalone sales carry no product; key the projection index on the
		// sale itself so the unique index holds.
		if s.ProductID == 0 {
			s.ProductID = s.ID
		}
		if err := g.db.Save(s).Error; err != nil {
			return 0, errors.Wrap(err, "save sale")
		}
		return s.ID, nil
	}
	return 0, ErrUnknownCollection
}

// ownedRow loads a row by id scoped to the session's principal.
func (g *Gateway) ownedRow(sess *Session, out interface{}, id int64) error {
	err := g.db.Where("id = ? and user_id = ?", id, sess.UserID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, "load document")
}

// refreshSaleProjection keeps one Sale row per sold product, and none for
// products that are not sold.
func (g *Gateway) refreshSaleProjection(sess *Session, p *domain.Product) error {
	if !p.Sold() {
		if err := g.db.Where("product_id = ? and user_id = ?", p.ID, sess.UserID).
			Delete(&domain.Sale{}).Error; err != nil {
			return errors.Wrap(err, "drop sale projection")
		}
		return nil
	}

	qty := p.Qty
	if p.QtySold != nil {
		qty = *p.QtySold
	}
	row := domain.Sale{
		UserID:    sess.UserID,
		ProductID: p.ID,
		Name:      p.Name,
		CostTotal: p.CostTotal,
		Qty:       qty,
		UpdatedAt: time.Now(),
	}
	if p.SaleValue != nil {
		row.SaleValue = *p.SaleValue
	}
	if p.SaleDate != nil {
		row.SaleDate = *p.SaleDate
	}
	if p.SaleMethod != nil {
		row.SaleMethod = *p.SaleMethod
	}

	var prev domain.Sale
	err := g.db.Where("product_id = ? and user_id = ?", p.ID, sess.UserID).First(&prev).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row.ID = g.nextID()
		row.CreatedAt = time.Now()
		return errors.Wrap(g.db.Create(&row).Error, "create sale projection")
	case err != nil:
		return errors.Wrap(err, "load sale projection")
	default:
		row.ID = prev.ID
		row.CreatedAt = prev.CreatedAt
		return errors.Wrap(g.db.Save(&row).Error, "update sale projection")
	}
}

// Remove deletes a document from the principal's collection and pushes the
// resulting snapshot.
func (g *Gateway) Remove(sess *Session, collection string, id int64) error {
	if sess == nil || sess.Closed() {
		return ErrAuthRequired
	}

	if err := g.remove(sess, collection, id); err != nil {
		metrics.RemoteWriteErrors.WithLabelValues(collection).Inc()
		sess.setBanner(bannerDeleteFailed)
		zap.L().Error("remove failed",
			zap.String("collection", collection), zap.Error(err))
		return err
	}

	if err := g.publishSnapshot(sess, collection); err != nil {
		return err
	}
	if collection == domain.CollectionProducts {
		if err := g.publishSnapshot(sess, domain.CollectionSales); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) remove(sess *Session, collection string, id int64) error {
	scope := g.db.Where("id = ? and user_id = ?", id, sess.UserID)
	switch collection {
	case domain.CollectionProducts:
		if err := scope.Delete(&domain.Product{}).Error; err != nil {
			return errors.Wrap(err, "delete product")
		}
		return errors.Wrap(
			g.db.Where("product_id = ? and user_id = ?", id, sess.UserID).
				Delete(&domain.Sale{}).Error, "drop sale projection")
	case domain.CollectionServices:
		return errors.Wrap(scope.Delete(&domain.Service{}).Error, "delete service")
	case domain.CollectionComponents:
		return errors.Wrap(scope.Delete(&domain.Component{}).Error, "delete component")
	case domain.CollectionSales:
		return errors.Wrap(scope.Delete(&domain.Sale{}).Error, "delete sale")
	}
	return ErrUnknownCollection
}

// publishSnapshot re-reads the full collection for the session's principal
// and replaces the store's copy wholesale. The store emits the collection's
// change event, which drives the per-collection render hooks.
func (g *Gateway) publishSnapshot(sess *Session, collection string) error {
	if sess.Closed() {
		return nil
	}
	scope := g.db.Where("user_id = ?", sess.UserID).Order("created_at, id")

	switch collection {
	case domain.CollectionProducts:
		var rows []domain.Product
		if err := scope.Find(&rows).Error; err != nil {
			return errors.Wrap(err, "load products snapshot")
		}
		sess.store.SetProducts(rows)
	case domain.CollectionServices:
		var rows []domain.Service
		if err := scope.Find(&rows).Error; err != nil {
			return errors.Wrap(err, "load services snapshot")
		}
		sess.store.SetServices(rows)
	case domain.CollectionComponents:
		var rows []domain.Component
		if err := scope.Find(&rows).Error; err != nil {
			return errors.Wrap(err, "load components snapshot")
		}
		sess.store.SetComponents(rows)
	case domain.CollectionSales:
		var rows []domain.Sale
		if err := scope.Find(&rows).Error; err != nil {
			return errors.Wrap(err, "load sales snapshot")
		}
		sess.store.SetSales(rows)
	default:
		return ErrUnknownCollection
	}

	metrics.SnapshotsDelivered.WithLabelValues(collection).Inc()
	return nil
}
