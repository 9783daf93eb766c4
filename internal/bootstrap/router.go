package bootstrap

import (
	"database/sql"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/showfolio/showfolio-backend/internal/api/http"
	"github.com/showfolio/showfolio-backend/internal/api/http/middleware"
	"github.com/showfolio/showfolio-backend/internal/auth"
	"github.com/showfolio/showfolio-backend/internal/catalog"
	projecthttp "github.com/showfolio/showfolio-backend/internal/projects/http"
	"github.com/showfolio/showfolio-backend/internal/projects/repository"
	"github.com/showfolio/showfolio-backend/internal/projects/service"
	"github.com/showfolio/showfolio-backend/internal/projects/storage"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Redis       *redis.Client
	AuthClient  *fbauth.Client
	UploadDir   string
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	// Without Firebase credentials the dev fallback trusts X-User-Id.
	var requireUser gin.HandlerFunc
	if dep.AuthClient != nil {
		requireUser = auth.Middleware(dep.AuthClient)
	} else {
		requireUser = auth.OptionalUser()
	}

	catalogRepo := catalog.NewRepository(dep.DB)
	var cache *catalog.Cache
	if dep.Redis != nil {
		cache = catalog.NewCache(dep.Redis)
	}
	resolver := catalog.NewResolver(catalogRepo, cache)
	catalog.NewHandler(resolver).Register(api)

	blobs, err := storage.NewDiskStore(dep.UploadDir)
	if err != nil {
		return nil, err
	}

	projectRepo := repository.NewProjectRepository(dep.DB)
	imageRepo := repository.NewImageRepository(dep.DB)
	imageMgr := service.NewImageManager(imageRepo, blobs)
	projectSvc := service.NewProjectService(projectRepo, imageMgr, resolver)

	projecthttp.NewHandler(projectSvc).Register(api.Group("/projects"), requireUser)

	return r, nil
}
