package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDataSet(t *testing.T) {
	d := Default()

	assert.Len(t, d.Products(), 8)
	assert.Len(t, d.Categories(), 4)
	assert.Len(t, d.Customers(), 5)
	assert.Len(t, d.Orders(), 6)

	p, ok := d.ProductByID("1")
	require.True(t, ok)
	assert.Equal(t, "Wireless Headphones", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("199.90")))

	// every default order total matches its lines
	for _, o := range d.Orders() {
		assert.True(t, o.Total.Equal(o.ComputeTotal()),
			"order %s total %s does not match lines (%s)", o.ID, o.Total, o.ComputeTotal())
	}
}

func TestLoadDirOverridesIndividualResources(t *testing.T) {
	dir := t.TempDir()
	productsJSON := `[{"id": "x1", "name": "Only Product", "sku": "X-1", "price": "3.00", "stock": 1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(productsJSON), 0600))

	d, err := LoadDir(dir)
	require.NoError(t, err)

	require.Len(t, d.Products(), 1)
	p, ok := d.ProductByID("x1")
	require.True(t, ok)
	assert.Equal(t, "Only Product", p.Name)

	// resources without a file in the directory fall back to the embedded set
	assert.Len(t, d.Orders(), 6)
	assert.Len(t, d.Customers(), 5)
}

func TestLoadDirPrefersYAMLExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.yaml"),
		[]byte("- id: from-yaml\n  name: A\n  slug: a\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"),
		[]byte(`[{"id": "from-json", "name": "B", "slug": "b"}]`), 0600))

	d, err := LoadDir(dir)
	require.NoError(t, err)
	_, ok := d.CategoryByID("from-yaml")
	assert.True(t, ok)
}

func TestLoadDirReportsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.yaml"),
		[]byte("{not valid: [yaml"), 0600))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"orders"`)
}

func TestParseJSONOrYAML(t *testing.T) {
	var fromJSON map[string]interface{}
	require.NoError(t, ParseJSONOrYAML([]byte(`{"a": 1}`), &fromJSON))
	assert.Equal(t, float64(1), fromJSON["a"])

	var fromYAML map[string]interface{}
	require.NoError(t, ParseJSONOrYAML([]byte("a: 1\n"), &fromYAML))
	assert.Equal(t, float64(1), fromYAML["a"])

	var target map[string]interface{}
	assert.Error(t, ParseJSONOrYAML([]byte(": not parseable : ["), &target))
}
