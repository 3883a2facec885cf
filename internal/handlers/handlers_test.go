package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/ai"
	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/productform"
	"github.com/01moynul/taptosell-admin/internal/repository"
	"github.com/01moynul/taptosell-admin/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct{}

func (stubCatalog) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{
		{ID: 1, Name: "Shirts", Parent: &models.Category{ID: 100, Name: "Clothes"},
			Parameters: []models.Parameter{{ID: 10, Name: "Material"}, {ID: 11, Name: "Weight"}}},
		{ID: 2, Name: "Paint", Parameters: []models.Parameter{{ID: 20, Name: "Color"}}},
		{ID: 3, Name: "Gift cards", Parameters: []models.Parameter{}},
	}, nil
}
func (stubCatalog) Brands(context.Context) ([]models.Brand, error) {
	return []models.Brand{{ID: 5, Name: "Acme"}}, nil
}
func (stubCatalog) Tags(context.Context) ([]models.Tag, error)   { return []models.Tag{}, nil }
func (stubCatalog) Sizes(context.Context) ([]models.Size, error) { return nil, nil }
func (stubCatalog) Colors(context.Context) ([]models.Color, error) {
	return []models.Color{{ID: 9, Name: "White", Code: "#FFFFFF"}}, nil
}

// MockProductReader is a mock implementation of ProductReader
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductReader) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

type saverFunc func(ctx context.Context, nav productform.Navigator, req productform.SaveRequest) error

func (f saverFunc) Save(ctx context.Context, nav productform.Navigator, req productform.SaveRequest) error {
	return f(ctx, nav, req)
}

// recordingUploader stores nothing and remembers deleted URLs.
type recordingUploader struct {
	deleted []string
}

func (u *recordingUploader) Upload(_ context.Context, f productform.File) (string, error) {
	return "/uploads/" + f.Name, nil
}

func (u *recordingUploader) Delete(_ context.Context, url string) error {
	u.deleted = append(u.deleted, url)
	return nil
}

type suggesterFunc func(ctx context.Context, name, description string) (ai.Suggestion, error)

func (f suggesterFunc) Suggest(ctx context.Context, name, description string) (ai.Suggestion, error) {
	return f(ctx, name, description)
}

type testEnv struct {
	h        *Handlers
	router   *gin.Engine
	store    *imagestate.MemoryStore
	uploads  *recordingUploader
	products *MockProductReader
	saved    []productform.SaveRequest
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	env := &testEnv{store: imagestate.NewMemoryStore(), uploads: &recordingUploader{}, products: new(MockProductReader)}
	env.h = &Handlers{
		Catalog:    stubCatalog{},
		Products:   env.products,
		Forms:      NewFormRegistry(logger),
		ImageStore: env.store,
		Saver: saverFunc(func(_ context.Context, nav productform.Navigator, req productform.SaveRequest) error {
			if req.Fields.Name == "" {
				return &validation.Error{Fields: validation.FieldErrors{"name": "This field is required."}}
			}
			env.saved = append(env.saved, req)
			nav.NavigateTo(navigation.AdminProducts)
			return nil
		}),
		Uploader: env.uploads,
		Log: logger,
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") == "other" {
			c.Set("userID", int64(2))
		} else {
			c.Set("userID", int64(1))
		}
		c.Next()
	})
	r.GET("/products", env.h.GetProducts)
	r.GET("/options", env.h.GetFormOptions)
	r.POST("/forms", env.h.OpenProductForm)
	form := r.Group("/forms/:formId")
	form.GET("", env.h.GetProductForm)
	form.DELETE("", env.h.CloseProductForm)
	form.PUT("/category", env.h.ChangeCategory)
	form.PUT("/parameters/:index", env.h.ChangeParameter)
	form.PUT("/description", env.h.SetDescription)
	form.POST("/variants", env.h.AddVariant)
	form.PUT("/variants/:index", env.h.UpdateVariant)
	form.POST("/variants/:index/images", env.h.UploadVariantImage)
	form.DELETE("/variants/:index/images/:position", env.h.RemoveVariantImage)
	form.POST("/uploads", env.h.UploadEditorImage)
	form.POST("/keywords/suggest", env.h.SuggestKeywords)
	form.POST("/submit", env.h.SubmitProductForm)
	form.POST("/back", env.h.GoBack)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type formReply struct {
	FormID string               `json:"formId"`
	Page   string               `json:"page"`
	Index  int                  `json:"index"`
	Form   productform.FormView `json:"form"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) open(t *testing.T, body any) formReply {
	t.Helper()
	w := e.do(t, http.MethodPost, "/forms", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[formReply](t, w)
}

func TestOpenProductForm_CreateMode(t *testing.T) {
	env := newEnv(t)
	reply := env.open(t, nil)

	assert.NotEmpty(t, reply.FormID)
	assert.Equal(t, "/admin/products/create", reply.Page)
	assert.Equal(t, "Create product", reply.Form.Title)
	assert.Equal(t, "Create", reply.Form.SubmitLabel)
	assert.False(t, reply.Form.Loading)
	assert.False(t, reply.Form.Characteristics.Visible)
	assert.Equal(t, "Clothes / Shirts", reply.Form.Categories[0].Label)
	assert.Equal(t, "Paint", reply.Form.Categories[1].Label)
	assert.Equal(t, 1, env.h.Forms.Len())
}

func TestOpenProductForm_EditMode(t *testing.T) {
	env := newEnv(t)
	cat := int64(1)
	env.products.On("GetProduct", mock.Anything, int64(7)).Return(&models.Product{
		ID: 7, Name: "Linen shirt", CategoryID: &cat,
		ProductVariants: []models.ProductVariant{
			{ID: 70, Images: []models.Image{{Filename: "/uploads/w1.png"}}},
		},
		ParameterProducts: []models.ParameterProduct{{ParameterID: 10, Value: "Linen"}},
	}, nil)

	reply := env.open(t, gin.H{"productId": 7})
	assert.Equal(t, "/admin/products/edit/7", reply.Page)
	assert.Equal(t, "Save", reply.Form.SubmitLabel)
	assert.True(t, reply.Form.EditMode)
	require.Len(t, reply.Form.Variants, 1)
	assert.Len(t, reply.Form.Variants[0].Images, 1)
	require.True(t, reply.Form.Characteristics.Visible)
	assert.Equal(t, "Linen", reply.Form.Characteristics.Rows[0].Value)
	assert.Equal(t, 1, env.store.Len())
}

func TestOpenProductForm_UnknownProduct(t *testing.T) {
	env := newEnv(t)
	env.products.On("GetProduct", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	w := env.do(t, http.MethodPost, "/forms", gin.H{"productId": 404})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.h.Forms.Len())
}

func TestChangeCategory_RebuildsCharacteristics(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	w := env.do(t, http.MethodPut, "/forms/"+id+"/category", gin.H{"categoryId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[formReply](t, w).Form
	require.Len(t, view.Characteristics.Rows, 2)

	w = env.do(t, http.MethodPut, "/forms/"+id+"/parameters/0", gin.H{"value": "Linen"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Linen", decode[formReply](t, w).Form.Characteristics.Rows[0].Value)

	w = env.do(t, http.MethodPut, "/forms/"+id+"/category", gin.H{"categoryId": 2})
	view = decode[formReply](t, w).Form
	require.Len(t, view.Characteristics.Rows, 1)
	assert.Equal(t, "Color", view.Characteristics.Rows[0].Name)
	assert.Empty(t, view.Characteristics.Rows[0].Value)

	w = env.do(t, http.MethodPut, "/forms/"+id+"/category", gin.H{"categoryId": 3})
	assert.False(t, decode[formReply](t, w).Form.Characteristics.Visible)

	w = env.do(t, http.MethodPut, "/forms/"+id+"/parameters/x", gin.H{"value": "v"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVariantsAndImages(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/forms/"+id+"/variants", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, i, decode[formReply](t, w).Index)
	}

	w := env.do(t, http.MethodPut, "/forms/"+id+"/variants/1", gin.H{"artical": "LS-B", "price": 42})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LS-B", decode[formReply](t, w).Form.Variants[1].Values.Artical)

	w = env.upload(t, "/forms/"+id+"/variants/1/images", "back.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/forms/"+id, nil)
	view := decode[formReply](t, w).Form
	assert.Empty(t, view.Variants[0].Images)
	require.Len(t, view.Variants[1].Images, 1)
	assert.Equal(t, "/uploads/back.png", view.Variants[1].Images[0].Filename)

	w = env.do(t, http.MethodDelete, "/forms/"+id+"/variants/1/images/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[formReply](t, w).Form.Variants[1].Images)
	assert.Equal(t, []string{"/uploads/back.png"}, env.uploads.deleted)

	w = env.do(t, http.MethodDelete, "/forms/"+id+"/variants/1/images/0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPut, "/forms/"+id+"/variants/5", gin.H{"artical": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadEditorImage(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	w := env.upload(t, "/forms/"+id+"/uploads", "inline.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"link":"/uploads/inline.png"}}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/forms/"+id+"/uploads", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetDescription(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	raw := `{"blocks":[{"key":"a","text":"Soft linen","type":"unstyled","depth":0,"inlineStyleRanges":[],"entityRanges":[],"data":{}}],"entityMap":{}}`
	w := env.do(t, http.MethodPut, "/forms/"+id+"/description", gin.H{"raw": raw})
	require.Equal(t, http.StatusOK, w.Code)
	desc := decode[formReply](t, w).Form.Description
	require.NotNil(t, desc)
	assert.Equal(t, "<p>Soft linen</p>", desc.HTML)

	w = env.do(t, http.MethodPut, "/forms/"+id+"/description", gin.H{"raw": "<p>nope</p>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID
	env.do(t, http.MethodPost, "/forms/"+id+"/variants", nil)
	env.upload(t, "/forms/"+id+"/variants/0/images", "front.png")

	w := env.do(t, http.MethodPost, "/forms/"+id+"/submit", gin.H{"name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
	assert.Equal(t, 1, env.h.Forms.Len())

	w = env.do(t, http.MethodPost, "/forms/"+id+"/submit", gin.H{"name": "Linen shirt", "category": 1, "brand": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "/admin/products", decode[map[string]any](t, w)["redirect"])

	require.Len(t, env.saved, 1)
	assert.Equal(t, 1, env.saved[0].VariantCount)
	assert.Len(t, env.saved[0].Images[0], 1)

	assert.Equal(t, 0, env.h.Forms.Len())
	assert.Equal(t, 0, env.store.Len())
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/forms/"+id, nil).Code)
}

func TestGoBackAndClose(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	w := env.do(t, http.MethodPost, "/forms/"+id+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin/products", decode[map[string]any](t, w)["redirect"])
	assert.Equal(t, 0, env.h.Forms.Len())

	id = env.open(t, nil).FormID
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/forms/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/forms/"+id, nil).Code)
}

func TestSessionsAreScopedToUser(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	req := httptest.NewRequest(http.MethodGet, "/forms/"+id, nil)
	req.Header.Set("X-User", "other")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggestKeywords(t *testing.T) {
	env := newEnv(t)
	id := env.open(t, nil).FormID

	w := env.do(t, http.MethodPost, "/forms/"+id+"/keywords/suggest", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env.h.Suggester = suggesterFunc(func(_ context.Context, name, description string) (ai.Suggestion, error) {
		if description == "" {
			return ai.Suggestion{}, ai.ErrEmptyDescription
		}
		return ai.Suggestion{Keywords: []string{name}, ShortDesc: description}, nil
	})
	w = env.do(t, http.MethodPost, "/forms/"+id+"/keywords/suggest", gin.H{"name": "shirt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	raw := `{"blocks":[{"key":"a","text":"Soft linen","type":"unstyled"}],"entityMap":{}}`
	env.do(t, http.MethodPut, "/forms/"+id+"/description", gin.H{"raw": raw})
	w = env.do(t, http.MethodPost, "/forms/"+id+"/keywords/suggest", gin.H{"name": "shirt"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestion":{"keywords":["shirt"],"shortDesc":"Soft linen"}}`, w.Body.String())
}

func TestGetProductsAndOptions(t *testing.T) {
	env := newEnv(t)
	env.products.On("ListProducts", mock.Anything, 50, 0).Return([]models.Product{{ID: 7, Name: "Linen shirt"}}, nil)

	w := env.do(t, http.MethodGet, "/products?limit=5000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Linen shirt")

	w = env.do(t, http.MethodGet, "/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Len(t, body["categoryOptions"], 3)
	assert.Len(t, body["colors"], 1)
}

func TestFormRegistry_Reap(t *testing.T) {
	env := newEnv(t)
	now := time.Now()
	env.h.Forms.now = func() time.Time { return now }

	idle := env.open(t, nil).FormID
	env.h.Forms.now = func() time.Time { return now.Add(30 * time.Minute) }
	fresh := env.open(t, nil).FormID
	require.Equal(t, 2, env.h.Forms.Len())

	env.h.Forms.now = func() time.Time { return now.Add(61 * time.Minute) }
	assert.Equal(t, 1, env.h.Forms.Reap(context.Background(), time.Hour))

	_, ok := env.h.Forms.Get(idle, 1)
	assert.False(t, ok)
	_, ok = env.h.Forms.Get(fresh, 1)
	assert.True(t, ok)

	env.h.Forms.CloseAll(context.Background())
	assert.Equal(t, 0, env.h.Forms.Len())
}

// failingClearStore fails the first n calls to Clear.
type failingClearStore struct {
	*imagestate.MemoryStore
	n int
}

func (s *failingClearStore) Clear(ctx context.Context, formID string) error {
	if s.n > 0 {
		s.n--
		return errors.New("redis down")
	}
	return s.MemoryStore.Clear(ctx, formID)
}

func TestFormRegistry_KeepsFormsThatFailedToRelease(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	store := &failingClearStore{MemoryStore: imagestate.NewMemoryStore(), n: 2}

	ctl := productform.New(productform.Props{}, productform.Deps{FormID: "form-1", ImageStore: store})
	require.NoError(t, ctl.Mount(ctx))
	_, err := ctl.AddVariant()
	require.NoError(t, err)
	require.NoError(t, ctl.AddVariantImage(ctx, 0, models.Image{Filename: "/uploads/a.png"}))

	forms := NewFormRegistry(logger)
	now := time.Now()
	forms.now = func() time.Time { return now }
	forms.Add(&FormSession{Controller: ctl, Nav: &navigation.Recorder{}, UserID: 1})

	// A failed close leaves the form registered.
	assert.EqualError(t, forms.Close(ctx, "form-1"), "release image state: redis down")
	assert.Equal(t, 1, forms.Len())

	// So does a failed reap, until a later pass succeeds.
	forms.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.Equal(t, 0, forms.Reap(ctx, time.Hour))
	assert.Equal(t, 1, forms.Len())
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, 1, forms.Reap(ctx, time.Hour))
	assert.Equal(t, 0, forms.Len())
	assert.Equal(t, 0, store.Len())
}
