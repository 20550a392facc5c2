// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	httpin "toko/internal/adapters/in/http"
	"toko/internal/adapters/in/http/middleware"
	fsout "toko/internal/adapters/out/firestore"
	"toko/internal/adapters/out/mail"
	"toko/internal/adapters/out/memory"
	"toko/internal/application/query"
	"toko/internal/application/usecase"
	cartdom "toko/internal/domain/cart"
	productdom "toko/internal/domain/product"
	userdom "toko/internal/domain/user"
	"toko/internal/infra/config"
	firebaseinfra "toko/internal/infra/firebase"
	firestoreinfra "toko/internal/infra/firestore"
	"toko/internal/infra/secrets"
)

// Container wires adapters into usecases and owns the shared clients.
type Container struct {
	Cfg *config.Config

	fs      *firestoreinfra.ClientWrapper
	secrets *secrets.Provider

	Products productdom.Repository
	Carts    cartdom.Repository
	Watcher  cartdom.Watcher
	Users    userdom.Repository

	Verifier middleware.TokenVerifier
	Mailer   usecase.ReceiptSender

	CatalogUC  *usecase.CatalogUsecase
	StockUC    *usecase.StockUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	AdminUC    *usecase.AdminUsecase
	CartSync   *query.Synchronizer
}

// New builds the container. FIRESTORE_PROJECT_ID が未設定なら in-memory の
// ローカルモードで起動する（デモカタログ入り）。
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}

	c := &Container{Cfg: cfg}

	if cfg.LocalMode() {
		if err := c.wireLocal(); err != nil {
			return nil, err
		}
	} else {
		if err := c.wireFirestore(ctx); err != nil {
			return nil, err
		}
	}

	c.wireMailer(ctx)
	c.wireUsecases()
	return c, nil
}

func (c *Container) wireLocal() error {
	log.Printf("[di] local mode: in-memory adapters with demo catalog")

	products := memory.NewProductRepository()
	if err := products.Seed(memory.DemoCatalog()...); err != nil {
		return err
	}
	carts := memory.NewCartRepository()

	c.Products = products
	c.Carts = carts
	c.Watcher = carts
	c.Users = memory.NewUserRepository()
	c.Verifier = devVerifier{}
	return nil
}

func (c *Container) wireFirestore(ctx context.Context) error {
	fs, err := firestoreinfra.NewClient(ctx, c.Cfg.FirestoreProjectID, c.Cfg.FirestoreCredentialsFile)
	if err != nil {
		return err
	}
	c.fs = fs

	// fail fast on bad credentials/project instead of at the first request
	if err := fs.Ping(ctx); err != nil {
		_ = fs.Close()
		return err
	}

	authClient, err := firebaseinfra.NewAuthClient(ctx, c.Cfg.FirebaseProjectID, c.Cfg.FirestoreCredentialsFile)
	if err != nil {
		_ = fs.Close()
		return err
	}

	cartRepo := fsout.NewCartRepositoryFS(fs.Client)

	c.Products = fsout.NewProductRepositoryFS(fs.Client)
	c.Carts = cartRepo
	c.Watcher = cartRepo
	c.Users = fsout.NewUserRepositoryFS(fs.Client)
	c.Verifier = authClient
	return nil
}

// wireMailer resolves the SendGrid key (env var first, then Secret Manager)
// and wires the receipt sender. Mail stays disabled when neither is set.
func (c *Container) wireMailer(ctx context.Context) {
	key := strings.TrimSpace(c.Cfg.SendGridAPIKey)

	if key == "" && strings.TrimSpace(c.Cfg.SendGridSecretName) != "" && !c.Cfg.LocalMode() {
		provider, err := secrets.NewProvider(ctx, c.Cfg.FirestoreProjectID)
		if err != nil {
			log.Printf("[di] secret manager unavailable, mail disabled: %v", err)
			return
		}
		c.secrets = provider

		key, err = provider.Get(ctx, c.Cfg.SendGridSecretName)
		if err != nil {
			log.Printf("[di] sendgrid key resolve failed, mail disabled: %v", err)
			return
		}
	}

	if key == "" {
		log.Printf("[di] sendgrid key not configured, mail disabled")
		return
	}
	c.Mailer = mail.NewSendGridSender(key, c.Cfg.MailFrom)
}

func (c *Container) wireUsecases() {
	c.CatalogUC = usecase.NewCatalogUsecase(c.Products)
	c.StockUC = usecase.NewStockUsecase(c.Products)
	c.CartUC = usecase.NewCartUsecase(c.Carts, c.CatalogUC, c.StockUC)
	c.CheckoutUC = usecase.NewCheckoutUsecase(c.Carts, c.CatalogUC, c.StockUC, c.Mailer)
	c.AdminUC = usecase.NewAdminUsecase(c.Products)
	c.CartSync = query.NewSynchronizer(c.Watcher)
}

// Handler builds the HTTP surface.
func (c *Container) Handler() http.Handler {
	return httpin.NewRouter(httpin.RouterDeps{
		CatalogUC:     c.CatalogUC,
		CartUC:        c.CartUC,
		CheckoutUC:    c.CheckoutUC,
		AdminUC:       c.AdminUC,
		CartSync:      c.CartSync,
		Verifier:      c.Verifier,
		UserRepo:      c.Users,
		AllowedOrigin: c.Cfg.AllowedOrigin,
	})
}

// Close releases shared clients.
func (c *Container) Close() {
	if c.secrets != nil {
		_ = c.secrets.Close()
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
}

// devVerifier is the local-mode stand-in for Firebase Auth: the bearer token
// itself is taken as the uid. Never wired when a Firestore project is
// configured.
type devVerifier struct{}

func (devVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	uid := strings.TrimSpace(idToken)
	if uid == "" {
		return nil, errors.New("di: empty dev token")
	}
	return &fbauth.Token{UID: uid}, nil
}
