package productform

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/01moynul/taptosell-admin/internal/imagestate"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/navigation"
	"github.com/01moynul/taptosell-admin/internal/richtext"
)

func ptr[T any](v T) *T { return &v }

// MockSaver is a mock implementation of Saver
type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) Save(ctx context.Context, nav Navigator, req SaveRequest) error {
	args := m.Called(ctx, nav, req)
	return args.Error(0)
}

// MockUploader is a mock implementation of Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, f File) (string, error) {
	args := m.Called(ctx, f.Name)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// failingClearStore fails the first n calls to Clear.
type failingClearStore struct {
	*imagestate.MemoryStore
	n int
}

func (s *failingClearStore) Clear(ctx context.Context, formID string) error {
	if s.n > 0 {
		s.n--
		return errBoom
	}
	return s.MemoryStore.Clear(ctx, formID)
}

type navSpy struct{ pages []navigation.Page }

func (n *navSpy) NavigateTo(p navigation.Page) { n.pages = append(n.pages, p) }

var errBoom = errors.New("boom")

func clothesCategories() []models.Category {
	return []models.Category{
		{
			ID:   1,
			Name: "Shirts",
			Parameters: []models.Parameter{
				{ID: 10, Name: "Material"},
				{ID: 11, Name: "Weight"},
			},
			Parent: &models.Category{ID: 100, Name: "Clothes"},
		},
		{
			ID:         2,
			Name:       "Paint",
			Parameters: []models.Parameter{{ID: 20, Name: "Color"}},
		},
		{
			ID:   3,
			Name: "Gift cards",
		},
		{
			ID:   4,
			Name: "Jackets",
			Parameters: []models.Parameter{
				{ID: 10, Name: "Material"},
				{ID: 30, Name: "Season"},
			},
		},
	}
}

func descriptionOf(text string) string {
	doc := richtext.Document{
		Blocks: []richtext.Block{{
			Key:               "k1",
			Text:              text,
			Type:              richtext.BlockUnstyled,
			InlineStyleRanges: []richtext.StyleRange{},
			EntityRanges:      []richtext.EntityRange{},
			Data:              map[string]any{},
		}},
		EntityMap: map[string]richtext.Entity{},
	}
	s, err := richtext.Serialize(doc)
	if err != nil {
		panic(err)
	}
	return s
}

func shirtProduct() *models.Product {
	cats := clothesCategories()
	return &models.Product{
		ID:         7,
		Name:       "Linen shirt",
		URL:        "linen-shirt",
		Desc:       descriptionOf("Breathable linen"),
		ShortDesc:  "Summer shirt",
		Keywords:   "linen, shirt",
		CategoryID: ptr(int64(1)),
		Category:   &cats[0],
		BrandID:    ptr(int64(5)),
		Tags:       []models.Tag{{ID: 1, Name: "summer"}, {ID: 2, Name: "new"}},
		Sizes:      []models.Size{{ID: 3, Name: "M"}},
		ProductVariants: []models.ProductVariant{
			{
				ID: 70, Artical: "LS-W", Price: 40, OldPrice: 50, Available: true, ColorID: ptr(int64(9)),
				Images: []models.Image{{ID: 1, Filename: "/uploads/w1.png"}, {ID: 2, Filename: "/uploads/w2.png"}},
			},
			{
				ID: 71, Artical: "LS-B", Price: 42,
				Images: []models.Image{{ID: 3, Filename: "/uploads/b1.png"}},
			},
		},
		ParameterProducts: []models.ParameterProduct{
			{ParameterID: 10, Value: "Linen"},
			{ParameterID: 99, Value: "stale"},
		},
	}
}
