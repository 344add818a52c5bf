package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/kantin-app/kantin-backend/internal/config"
	"github.com/kantin-app/kantin-backend/internal/modules/activity"
	"github.com/kantin-app/kantin-backend/internal/modules/auth"
	"github.com/kantin-app/kantin-backend/internal/modules/cart"
	"github.com/kantin-app/kantin-backend/internal/modules/catalog"
	"github.com/kantin-app/kantin-backend/internal/modules/order"
	"github.com/kantin-app/kantin-backend/internal/modules/queue"
	"github.com/kantin-app/kantin-backend/internal/modules/store"
	"github.com/kantin-app/kantin-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db := config.MustInitPostgres()
	defer db.Close()
	rdb := config.MustInitRedis()
	defer rdb.Close()
	fmt.Println("Successfully connected to Postgres and Redis!")

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey == "" {
		log.Fatal("JWT_KEY must be set")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Phase 1: Identity & Sessions ────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)

	authService := auth.NewService(userRepo, rdb, []byte(jwtKey))
	mw := auth.NewMiddleware(authService)
	authenticate := mw.Authenticate
	requireAdmin := mw.RequireRole(string(user.RoleAdmin))
	requireManage := mw.RequireRole(string(user.RoleAdmin), string(user.RoleStoreManager))

	auth.NewHandler(authService, mw).RegisterRoutes(router)
	user.NewHandler(userService, authenticate, requireAdmin).RegisterRoutes(router)

	// ── Phase 2: Stores & Catalog ───────────────────────────
	storeRepo := store.NewPostgresRepository(db)
	storeService := store.NewService(storeRepo)
	store.NewHandler(storeService, requireAdmin).RegisterRoutes(router)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService, requireAdmin).RegisterRoutes(router)

	// ── Phase 3: Cart & Checkout ────────────────────────────
	cartStore := cart.NewStore(rdb)
	cartService := cart.NewService(cartStore, catalogService)
	cart.NewHandler(cartService, authenticate).RegisterRoutes(router)

	activityRepo := activity.NewPostgresRepository(db)
	var activityPublisher activity.Publisher
	if w := config.NewKafkaWriter("canteen.activity"); w != nil {
		activityPublisher = activity.NewKafkaPublisher(w)
	}
	activityService := activity.NewService(activityRepo, activityPublisher)
	activity.NewHandler(activityService, requireAdmin).RegisterRoutes(router)

	queueStore := queue.NewStore(rdb)
	queueService := queue.NewService(queueStore)
	queue.NewHandler(queueService, requireManage).RegisterRoutes(router)

	orderRepo := order.NewPostgresRepository(db)
	idemStore := order.NewIdempotencyStore(rdb)
	qr := &order.DefaultQRGenerator{BaseURL: config.Getenv("APP_BASE_URL", "http://localhost:8080")}
	orderService := order.NewService(orderRepo, cartService, catalogService, queueService, activityService, idemStore, qr)
	order.NewHandler(orderService, authenticate).RegisterRoutes(router)

	// Completing the last queue entry of an order projects the order to READY.
	queueService.SetCompletionListener(orderService.(queue.CompletionListener))

	// ── Start Server ─────────────────────────────────────────
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{config.Getenv("CORS_ORIGIN", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler(router)

	port := config.Getenv("APP_PORT", "8080")
	fmt.Printf("Kantin API server starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
