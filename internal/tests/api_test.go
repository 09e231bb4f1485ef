// internal/tests/api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/database"
	"github.com/ratepoint/storeratings-backend/internal/i18n"
	"github.com/ratepoint/storeratings-backend/internal/router"
)

type APITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	customerToken string
	adminToken    string
	ownerToken    string

	requestSeq int
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(database.RunMigrations(db))
	s.Require().NoError(database.SeedDemoData(db))
	s.Require().NoError(i18n.Initialize("../i18n/locales"))

	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Host: "localhost", Port: "8080"},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		I18n: config.I18nConfig{DefaultLocale: "en"},
	}
	s.router = router.Initialize(db, cfg)
}

func (s *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	// Unique client address per request keeps the per-IP rate limiter
	// out of the way of the test flow.
	s.requestSeq++
	req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:1234", s.requestSeq/250, s.requestSeq%250+1)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (s *APITestSuite) login(email, password string) string {
	w := s.request("POST", "/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	data := s.decode(w)["data"].(map[string]interface{})
	return data["token"].(string)
}

func (s *APITestSuite) TestAPIFlow() {
	s.Run("health", func() {
		w := s.request("GET", "/health", "", nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("demo accounts login", func() {
		s.adminToken = s.login("admin@store.com", "Admin123!")
		s.ownerToken = s.login("owner@store.com", "Owner123!")
		s.customerToken = s.login("user@store.com", "User123!")
	})

	s.Run("anonymous store listing", func() {
		w := s.request("GET", "/v1/stores", "", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		data := s.decode(w)["data"].(map[string]interface{})
		items := data["items"].([]interface{})
		s.Require().NotEmpty(items)

		first := items[0].(map[string]interface{})
		s.Contains(first, "average_rating")
		s.Contains(first, "total_ratings")
		s.NotContains(first, "my_rating")
	})

	s.Run("listing rejects unknown sort field", func() {
		w := s.request("GET", "/v1/stores?sort=owner_id", "", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("customer rates a store", func() {
		storeID := s.firstStoreID()

		w := s.request("POST", "/v1/ratings/"+storeID, s.customerToken, map[string]interface{}{
			"rating":  5,
			"comment": "Fantastic selection",
		})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		// Re-rating overwrites instead of stacking
		w = s.request("POST", "/v1/ratings/"+storeID, s.customerToken, map[string]interface{}{
			"rating": 3,
		})
		s.Require().Equal(http.StatusOK, w.Code)

		w = s.request("GET", "/v1/stores/"+storeID, s.customerToken, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		store := s.decode(w)["data"].(map[string]interface{})["store"].(map[string]interface{})
		myRating := store["my_rating"].(map[string]interface{})
		s.EqualValues(3, myRating["rating"])
	})

	s.Run("owner cannot rate", func() {
		w := s.request("POST", "/v1/ratings/"+s.firstStoreID(), s.ownerToken, map[string]interface{}{
			"rating": 5,
		})
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("rating out of range rejected", func() {
		w := s.request("POST", "/v1/ratings/"+s.firstStoreID(), s.customerToken, map[string]interface{}{
			"rating": 6,
		})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("owner dashboard", func() {
		w := s.request("GET", "/v1/owner/dashboard", s.ownerToken, nil)
		s.Require().Equal(http.StatusOK, w.Code)

		data := s.decode(w)["data"].(map[string]interface{})
		s.EqualValues(3, data["total_stores"])

		// Customers and admins are turned away
		w = s.request("GET", "/v1/owner/dashboard", s.customerToken, nil)
		s.Equal(http.StatusForbidden, w.Code)

		w = s.request("GET", "/v1/owner/dashboard", s.adminToken, nil)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("admin area is gated", func() {
		w := s.request("GET", "/v1/admin/dashboard/stats", s.customerToken, nil)
		s.Equal(http.StatusForbidden, w.Code)

		w = s.request("GET", "/v1/admin/dashboard/stats", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)

		w = s.request("GET", "/v1/admin/dashboard/stats", s.adminToken, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		data := s.decode(w)["data"].(map[string]interface{})
		s.EqualValues(3, data["total_users"])
	})

	s.Run("admin lists users with pagination headers", func() {
		w := s.request("GET", "/v1/admin/users?sort=email&order=asc", s.adminToken, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("3", w.Header().Get("X-Total-Count"))
	})

	s.Run("unknown body fields rejected", func() {
		w := s.request("POST", "/v1/ratings/"+s.firstStoreID(), s.customerToken, map[string]interface{}{
			"rating":  4,
			"user_id": uuid.NewString(),
		})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *APITestSuite) firstStoreID() string {
	w := s.request("GET", "/v1/stores?sort=name&order=asc", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	s.Require().NotEmpty(items)
	return items[0].(map[string]interface{})["id"].(string)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
