package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-waitlist/models"
	"github.com/yeremiapane/restaurant-waitlist/router"
	"github.com/yeremiapane/restaurant-waitlist/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// apiResponse -> envelope standar {status, message, data}
type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) (*gorm.DB, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Table{}, &models.CheckIn{}))
	return db, router.SetupRouter(db)
}

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	resp := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func mustCheckIn(t *testing.T, r *gin.Engine, contact string, size int) models.CheckIn {
	w := performRequest(r, http.MethodPost, "/check-in", gin.H{
		"party_size":     size,
		"contact_number": contact,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.CheckIn
	decodeData(t, w, &entry)
	return entry
}

func mustCreateTable(t *testing.T, r *gin.Engine, number string, capacity int) models.Table {
	w := performRequest(r, http.MethodPost, "/admin/tables", gin.H{
		"table_number": number,
		"capacity":     capacity,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var table models.Table
	decodeData(t, w, &table)
	return table
}
