package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/freelance-market/market-backend/internal/api/http"
	apimw "github.com/freelance-market/market-backend/internal/api/http/middleware"

	"github.com/freelance-market/market-backend/config"
	adminhttp "github.com/freelance-market/market-backend/internal/admin/http"
	adminsvc "github.com/freelance-market/market-backend/internal/admin/service"
	"github.com/freelance-market/market-backend/internal/auth"
	authhttp "github.com/freelance-market/market-backend/internal/auth/http"
	authmw "github.com/freelance-market/market-backend/internal/auth/middleware"
	authsvc "github.com/freelance-market/market-backend/internal/auth/service"
	"github.com/freelance-market/market-backend/internal/events"
	notifhttp "github.com/freelance-market/market-backend/internal/notifications/http"
	notifsvc "github.com/freelance-market/market-backend/internal/notifications/service"
	ordershttp "github.com/freelance-market/market-backend/internal/orders/http"
	orderssvc "github.com/freelance-market/market-backend/internal/orders/service"
	projectshttp "github.com/freelance-market/market-backend/internal/projects/http"
	projectssvc "github.com/freelance-market/market-backend/internal/projects/service"
	realtimehttp "github.com/freelance-market/market-backend/internal/realtime/http"
	usersdomain "github.com/freelance-market/market-backend/internal/users/domain"
	usershttp "github.com/freelance-market/market-backend/internal/users/http"
	userssvc "github.com/freelance-market/market-backend/internal/users/service"
)

type RouterDeps struct {
	Cfg         *config.Config
	ServiceName string
	Version     string

	DB    *sql.DB
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Bus   *events.Bus

	Issuer *auth.TokenIssuer

	Users         *userssvc.UserService
	Projects      *projectssvc.ProjectService
	Orders        *orderssvc.OrderService
	Notifications *notifsvc.NotificationService
	Auth          *authsvc.AuthService
	Admin         *adminsvc.AdminService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(apimw.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Pool, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	// Public auth routes sit behind a per-IP rate limit only.
	authGroup := api.Group("/auth")
	authGroup.Use(authmw.RateLimitMiddleware(5, 10))
	authhttp.New(dep.Auth).Register(authGroup)

	// Everything else requires a valid bearer token.
	protected := api.Group("")
	protected.Use(authmw.JWTAuthMiddleware(dep.Issuer))

	usershttp.New(dep.Users).Register(protected.Group("/users"))

	projectshttp.New(dep.Projects).Register(protected.Group("/projects"))
	ordershttp.New(dep.Orders).Register(protected.Group("/orders"))
	notifhttp.New(dep.Notifications).Register(protected.Group("/notifications"))

	adminGroup := protected.Group("/admin")
	adminGroup.Use(authmw.RequireRoles(usersdomain.RoleAdmin))
	adminhttp.New(dep.Admin).Register(adminGroup)

	realtimehttp.New(dep.Bus).Register(protected.Group("/streams"))

	return r
}
