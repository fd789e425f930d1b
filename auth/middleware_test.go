// auth/middleware_test.go
package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revguard/api/auth"
	"github.com/revguard/api/dao"
	appdb "github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/model"
	"github.com/revguard/api/rbac"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitTestLogger()
	gin.SetMode(gin.TestMode)
	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.ttl", "1h")

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, appdb.Migrate(gdb))
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		Username:     email,
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// staticRevocations marks a fixed set of token IDs as revoked.
type staticRevocations map[string]bool

func (s staticRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s[tokenID], nil
}

func authEngine(gdb *gorm.DB, revocations auth.TokenRevocations, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	group := engine.Group("/")
	group.Use(auth.Authenticate(dao.NewUserDAO(gdb), revocations))
	group.Use(extra...)
	group.GET("/probe", func(c *gin.Context) {
		user, _ := auth.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return engine
}

func doGet(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingAndMalformedTokens(t *testing.T) {
	gdb := setupAuthDB(t)
	engine := authEngine(gdb, nil)

	assert.Equal(t, http.StatusUnauthorized, doGet(engine, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(engine, "garbage").Code)
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	gdb := setupAuthDB(t)
	user := createUser(t, gdb, "ops@example.com", model.RoleOperations)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	w := doGet(authEngine(gdb, nil), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	gdb := setupAuthDB(t)
	user := createUser(t, gdb, "gone@example.com", model.RoleOperations)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	userDAO := dao.NewUserDAO(gdb)
	require.NoError(t, userDAO.SoftDelete(context.Background(), user, user.ID))

	// The token itself is still cryptographically valid.
	assert.Equal(t, http.StatusUnauthorized, doGet(authEngine(gdb, nil), token).Code)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	gdb := setupAuthDB(t)
	user := createUser(t, gdb, "ops@example.com", model.RoleOperations)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	revoked := staticRevocations{claims.ID: true}
	assert.Equal(t, http.StatusUnauthorized, doGet(authEngine(gdb, revoked), token).Code)

	// Not on the list: passes.
	assert.Equal(t, http.StatusOK, doGet(authEngine(gdb, staticRevocations{}), token).Code)
}

func TestRequireActiveBlocksDeactivatedUser(t *testing.T) {
	gdb := setupAuthDB(t)
	user := createUser(t, gdb, "parked@example.com", model.RoleOperations)
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	require.NoError(t, gdb.Model(user).Update("is_active", false).Error)

	w := doGet(authEngine(gdb, nil, auth.RequireActive()), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleIsStrict(t *testing.T) {
	gdb := setupAuthDB(t)
	admin := createUser(t, gdb, "admin@example.com", model.RoleAdmin)
	ops := createUser(t, gdb, "ops@example.com", model.RoleOperations)

	adminToken, err := auth.GenerateToken(admin)
	require.NoError(t, err)
	opsToken, err := auth.GenerateToken(ops)
	require.NoError(t, err)

	engine := authEngine(gdb, nil, auth.RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusOK, doGet(engine, adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(engine, opsToken).Code)

	// No hierarchy in the other direction either: an admin token does not
	// satisfy an operations-only gate.
	opsOnly := authEngine(gdb, nil, auth.RequireRole(model.RoleOperations))
	assert.Equal(t, http.StatusForbidden, doGet(opsOnly, adminToken).Code)
}

func TestRequirePermission(t *testing.T) {
	gdb := setupAuthDB(t)

	permission := model.Permission{
		Code: "reconciliation.data.read", Name: "View Data Grid",
		Category: model.CategoryReconciliation, Action: model.ActionRead, Resource: "fine_data",
	}
	require.NoError(t, gdb.Create(&permission).Error)
	role := model.Role{
		Code: "OPERATIONS", Name: "Operations User", IsSystemRole: true,
		Permissions: []model.Permission{permission},
	}
	require.NoError(t, gdb.Create(&role).Error)

	admin := createUser(t, gdb, "admin@example.com", model.RoleAdmin)
	ops := createUser(t, gdb, "ops@example.com", model.RoleOperations)
	cxo := createUser(t, gdb, "cxo@example.com", model.RoleExecutive)

	adminToken, _ := auth.GenerateToken(admin)
	opsToken, _ := auth.GenerateToken(ops)
	cxoToken, _ := auth.GenerateToken(cxo)

	resolver := rbac.NewResolver(gdb)
	engine := authEngine(gdb, nil, auth.RequirePermission(resolver, "reconciliation.data.read"))

	assert.Equal(t, http.StatusOK, doGet(engine, opsToken).Code)
	assert.Equal(t, http.StatusOK, doGet(engine, adminToken).Code) // admin bypass
	assert.Equal(t, http.StatusForbidden, doGet(engine, cxoToken).Code)
}
