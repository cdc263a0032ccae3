package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

const sampleCatalogJSON = `{
	"products": [
		{"id": 1, "name": "Tee", "price": 10, "category": "Clothing", "brand": "A",
		 "rating": 4.5, "discount": 20, "image": "tee.jpg", "images": ["tee-2.jpg"],
		 "reviews": [{"name": "Ana", "rating": 5, "comment": "Great"}]},
		{"id": 2, "name": "Shoe", "price": 5.5, "category": "Shoes", "brand": "B"}
	]
}`

const sampleCatalogYAML = `
products:
  - id: 1
    name: Tee
    price: 10
    category: Clothing
    brand: A
    rating: 4.5
  - id: 2
    name: Shoe
    price: 5.5
    category: Shoes
    brand: B
`

func loadStatic(t *testing.T, format, data string) ([]models.Product, error) {
	t.Helper()
	repo, err := NewCatalogRepository(NewStaticCatalogSource("test", format, []byte(data)))
	require.NoError(t, err)
	return repo.LoadProducts(context.Background())
}

func TestCatalogRepository_LoadJSON(t *testing.T) {
	products, err := loadStatic(t, "json", sampleCatalogJSON)
	require.NoError(t, err)
	require.Len(t, products, 2)

	tee := products[0]
	assert.Equal(t, 1, tee.ID)
	assert.Equal(t, "Tee", tee.Name)
	assert.Equal(t, "10", tee.Price.String())
	require.NotNil(t, tee.Rating)
	assert.Equal(t, 4.5, *tee.Rating)
	require.NotNil(t, tee.Discount)
	assert.Equal(t, 20.0, *tee.Discount)
	assert.Equal(t, []string{"tee.jpg", "tee-2.jpg"}, tee.AllImages())
	assert.Equal(t, 1, tee.ReviewCount())

	shoe := products[1]
	assert.Equal(t, "5.5", shoe.Price.String())
	assert.Nil(t, shoe.Rating)
	assert.Nil(t, shoe.Discount)
	assert.Equal(t, 0, shoe.ReviewCount())
}

func TestCatalogRepository_LoadYAML(t *testing.T) {
	products, err := loadStatic(t, "yaml", sampleCatalogYAML)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Tee", products[0].Name)
	assert.Equal(t, "Shoes", products[1].Category)
	assert.Equal(t, "5.5", products[1].Price.String())
}

func TestCatalogRepository_EmptyCatalog(t *testing.T) {
	products, err := loadStatic(t, "json", `{"products": []}`)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCatalogRepository_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"products": [`},
		{"missing products", `{}`},
		{"missing name", `{"products": [{"id": 1, "price": 1, "category": "c", "brand": "b"}]}`},
		{"negative price", `{"products": [{"id": 1, "name": "n", "price": -1, "category": "c", "brand": "b"}]}`},
		{"fractional id", `{"products": [{"id": 1.5, "name": "n", "price": 1, "category": "c", "brand": "b"}]}`},
		{"rating above five", `{"products": [{"id": 1, "name": "n", "price": 1, "category": "c", "brand": "b", "rating": 6}]}`},
		{"duplicate id", `{"products": [
			{"id": 1, "name": "a", "price": 1, "category": "c", "brand": "b"},
			{"id": 1, "name": "b", "price": 2, "category": "c", "brand": "b"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadStatic(t, "json", tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrLoadFailure)

			var storeErr *models.StoreError
			require.True(t, errors.As(err, &storeErr))
			assert.Equal(t, "catalog.parse", storeErr.Op)
		})
	}
}

func TestCatalogRepository_InvalidYAML(t *testing.T) {
	_, err := loadStatic(t, "yaml", "products: [\n  - id: 1\n   bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLoadFailure)
}

func TestCatalogRepository_ReadFailure(t *testing.T) {
	source, err := NewFileCatalogSource(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	repo, err := NewCatalogRepository(source)
	require.NoError(t, err)

	_, err = repo.LoadProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLoadFailure)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var storeErr *models.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "catalog.read", storeErr.Op)
}

func TestFileCatalogSource_FormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalogYAML), 0644))

	source, err := NewFileCatalogSource(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml", source.Format())
	assert.Equal(t, "file:"+path, source.Name())

	repo, err := NewCatalogRepository(source)
	require.NoError(t, err)
	products, err := repo.LoadProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

type fakeDownloader struct {
	files map[string][]byte
}

func (f *fakeDownloader) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func TestDriveCatalogSource(t *testing.T) {
	downloader := &fakeDownloader{files: map[string][]byte{"abc": []byte(sampleCatalogJSON)}}

	repo, err := NewCatalogRepository(NewDriveCatalogSource(downloader, "abc", "json"))
	require.NoError(t, err)
	products, err := repo.LoadProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)

	repo, err = NewCatalogRepository(NewDriveCatalogSource(downloader, "missing", "json"))
	require.NoError(t, err)
	_, err = repo.LoadProducts(context.Background())
	assert.ErrorIs(t, err, models.ErrLoadFailure)
}

func TestSampleCatalogFileIsValid(t *testing.T) {
	source, err := NewFileCatalogSource(filepath.Join("..", "data", "catalog.json"))
	require.NoError(t, err)
	repo, err := NewCatalogRepository(source)
	require.NoError(t, err)

	products, err := repo.LoadProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}
