package kernel_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/notifications"
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []*jobs.TelegramJob
}

func (q *recordingQueue) Dispatch(job queue.Job) error { return q.DispatchAfter(job, 0) }

func (q *recordingQueue) DispatchAfter(job queue.Job, _ time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job.(*jobs.TelegramJob))
	return nil
}

func (q *recordingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testkit.DB(t, migration.Registered())
	require.NoError(t, seeders.RunAll(context.Background(), db, nil))
	return db
}

func newHandler(t *testing.T, d kernel.Deps) http.Handler {
	t.Helper()
	if d.DB == nil {
		d.DB = seededDB(t)
	}
	if d.Queue == nil {
		d.Queue = queue.New(queue.NewMemoryDriver())
	}
	k, err := kernel.New(d)
	require.NoError(t, err)
	return k.Handler()
}

func TestScenarios(t *testing.T) {
	for _, file := range []string{"catalog", "categories", "cart", "orders", "settings", "system"} {
		t.Run(file, func(t *testing.T) {
			testkit.RunFile(t, newHandler(t, kernel.Deps{}), "testdata/"+file+".json")
		})
	}
}

func TestNewRequiresDatabaseAndQueue(t *testing.T) {
	_, err := kernel.New(kernel.Deps{Queue: &recordingQueue{}})
	assert.Error(t, err)

	_, err = kernel.New(kernel.Deps{DB: seededDB(t)})
	assert.Error(t, err)
}

func TestRootIsPlainText(t *testing.T) {
	h := newHandler(t, kernel.Deps{})

	rec := testkit.Do(h, http.MethodGet, "/api/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", rec.Body.String())
}

func TestLogin(t *testing.T) {
	h := newHandler(t, kernel.Deps{})

	t.Run("wrong password", func(t *testing.T) {
		rec := testkit.Do(h, http.MethodPost, "/api/admin/login",
			map[string]string{"username": "admin", "password": "nope"}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := testkit.JSON(t, rec)
		assert.Equal(t, "Invalid username or password", body["error"])
		assert.NotContains(t, body, "token")
		assert.NotContains(t, body, "admin")
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := testkit.Do(h, http.MethodPost, "/api/admin/login",
			map[string]string{"username": "ghost", "password": "admin123"}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid username or password", testkit.JSON(t, rec)["error"])
	})

	t.Run("seeded admin", func(t *testing.T) {
		rec := testkit.Do(h, http.MethodPost, "/api/admin/login",
			map[string]string{"username": "admin", "password": "admin123"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := testkit.JSON(t, rec)
		assert.Equal(t, "Login successful", body["message"])
		assert.Equal(t, "admin", body["admin"].(map[string]any)["username"])

		claims, err := auth.ValidateToken(body["token"].(string))
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})
}

func TestStats(t *testing.T) {
	h := newHandler(t, kernel.Deps{})

	testkit.Do(h, http.MethodPost, "/api/admin/products", map[string]any{"name": "Widget", "price": 10}, nil)
	rec := testkit.Do(h, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Ann", "customer_phone": "1", "total_amount": 75,
		"items": []map[string]any{{"id": 1, "name": "Widget", "quantity": 1, "price": 75}},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, status := range []string{"processing", "shipped", "delivered"} {
		rec = testkit.Do(h, http.MethodPut, "/api/admin/orders/1/status", map[string]string{"status": status}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = testkit.Do(h, http.MethodGet, "/api/admin/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"total_products": float64(1),
		"total_orders":   float64(1),
		"total_revenue":  float64(75),
	}, testkit.JSON(t, rec))
}

func TestAdminAuthRequired(t *testing.T) {
	h := newHandler(t, kernel.Deps{AdminAuthRequired: true})

	rec := testkit.Do(h, http.MethodGet, "/api/admin/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(h, http.MethodGet, "/api/admin/orders", nil,
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken(1, "admin")
	require.NoError(t, err)

	rec = testkit.Do(h, http.MethodGet, "/api/admin/orders", nil,
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(h, http.MethodGet, "/api/admin/orders?token="+token, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(h, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Ann", "customer_phone": "1",
		"items": []map[string]any{{"id": 1, "name": "Widget", "quantity": 1, "price": 10}},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = testkit.Do(h, http.MethodPut, "/api/admin/orders/1/status", map[string]string{"status": "processing"},
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Public routes stay open.
	rec = testkit.Do(h, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangesAreAnnounced(t *testing.T) {
	q := &recordingQueue{}
	h := newHandler(t, kernel.Deps{
		Queue:    q,
		Telegram: notifications.Config{Enabled: true, ChannelID: "@shop", OrdersChannelID: "@orders"},
	})

	rec := testkit.Do(h, http.MethodDelete, "/api/admin/products/999", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, q.len())

	rec = testkit.Do(h, http.MethodPost, "/api/admin/products", map[string]any{"name": "Widget", "price": 100}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 1, q.len())
	assert.Equal(t, "@shop", q.jobs[0].Message.ChatID)
	assert.Contains(t, q.jobs[0].Message.Text, "Widget")

	rec = testkit.Do(h, http.MethodPost, "/api/orders", map[string]any{
		"customer_name": "Ann", "customer_phone": "1",
		"items": []map[string]any{{"id": 1, "name": "Widget", "quantity": 1, "price": 100}},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 2, q.len())
	assert.Equal(t, "@orders", q.jobs[1].Message.ChatID)

	// Rejected transitions are not announced.
	rec = testkit.Do(h, http.MethodPut, "/api/admin/orders/1/status", map[string]string{"status": "delivered"}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, q.len())
}

func TestStoreFailureIsServerError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.OpenDialector(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "products"`).WillReturnError(errors.New("connection refused"))

	h := newHandler(t, kernel.Deps{DB: db})
	rec := testkit.Do(h, http.MethodGet, "/api/products", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "connection refused", testkit.JSON(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func uploadRequest(t *testing.T, filename, declaredType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	hdr.Set("Content-Type", declaredType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/admin/images", &buf)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func TestImageUpload(t *testing.T) {
	mgr, err := storage.NewManager(context.Background(), storage.Config{
		LocalRoot: t.TempDir(),
		LocalURL:  "http://localhost/storage",
	})
	require.NoError(t, err)
	h := newHandler(t, kernel.Deps{Storage: mgr})

	t.Run("png is stored by its sniffed type", func(t *testing.T) {
		png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "x.html", "text/html", png))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		path := testkit.JSON(t, rec)["path"].(string)
		assert.True(t, strings.HasPrefix(path, "products/"), path)
		assert.True(t, strings.HasSuffix(path, ".png"), path)

		rec = testkit.Do(h, http.MethodGet, "/storage/"+path, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})

	t.Run("markup declared as an image is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "x.png", "image/png", []byte("<html><script>alert(1)</script></html>")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only JPEG, PNG, GIF and WebP images are accepted", testkit.JSON(t, rec)["error"])
	})

	t.Run("missing field", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("name", "x"))
		require.NoError(t, w.Close())

		r := httptest.NewRequest(http.MethodPost, "/api/admin/images", &buf)
		r.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
