package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mecanosync-backend/config"
	"mecanosync-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTenantTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Shop{}))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })
}

func tenantRouter(userID string, superuser bool) *gin.Engine {
	r := gin.New()
	r.GET("/protected",
		func(c *gin.Context) {
			c.Set("userId", userID)
			c.Set("superuser", superuser)
		},
		TenantMiddleware(),
		func(c *gin.Context) {
			shop, _ := currentShop(c)
			c.JSON(http.StatusOK, gin.H{"shop": shop.Name})
		})
	return r
}

func TestTenantMiddlewareDeniesUserWithoutShop(t *testing.T) {
	setupTenantTest(t)

	user := models.User{Email: "noshop@example.com", Password: "pass123", Name: "No Shop"}
	require.NoError(t, config.DB.Create(&user).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	tenantRouter(user.ID.String(), false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No active shop")
}

func TestTenantMiddlewareDeniesSuperuser(t *testing.T) {
	setupTenantTest(t)

	user := models.User{Email: "root@example.com", Password: "pass123", Name: "Root", IsSuperuser: true}
	require.NoError(t, config.DB.Create(&user).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	tenantRouter(user.ID.String(), true).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantMiddlewareSkipsInactiveShop(t *testing.T) {
	setupTenantTest(t)

	user := models.User{Email: "owner@example.com", Password: "pass123", Name: "Owner"}
	require.NoError(t, config.DB.Create(&user).Error)
	shop := models.Shop{
		Name: "Closed Shop", TaxID: "tax-1", OwnerID: &user.ID,
		Phone: "11999990000", Email: "shop@example.com", City: "Sao Paulo",
	}
	require.NoError(t, config.DB.Create(&shop).Error)
	require.NoError(t, config.DB.Model(&shop).Update("is_active", false).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	tenantRouter(user.ID.String(), false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantMiddlewareResolvesActiveShop(t *testing.T) {
	setupTenantTest(t)

	user := models.User{Email: "owner2@example.com", Password: "pass123", Name: "Owner"}
	require.NoError(t, config.DB.Create(&user).Error)
	shop := models.Shop{
		Name: "Open Shop", TaxID: "tax-2", OwnerID: &user.ID,
		Phone: "11999990000", Email: "shop2@example.com", City: "Sao Paulo",
		IsActive: true,
	}
	require.NoError(t, config.DB.Create(&shop).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	tenantRouter(user.ID.String(), false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Open Shop")
}

func TestRequireModuleBlocksDisabledArea(t *testing.T) {
	gin.SetMode(gin.TestMode)

	shop := &models.Shop{Name: "Flagged", ReportsModule: false, CustomersModule: true}

	r := gin.New()
	r.GET("/reports",
		func(c *gin.Context) { c.Set("shop", shop) },
		RequireModule(ModuleReports),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/customers",
		func(c *gin.Context) { c.Set("shop", shop) },
		RequireModule(ModuleCustomers),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
