// Package fixtures holds the static sample records served by the mock API
// and the loader that reads them from embedded or external data files.
package fixtures

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

// Fixture files may use any of these extensions; the first one found wins.
var dataFileExtensions = []string{".yaml", ".yml", ".json"} //nolint:gochecknoglobals

var defaultOnce sync.Once    //nolint:gochecknoglobals
var defaultDataSet DataSet   //nolint:gochecknoglobals

// Default returns the embedded fixture data set. The embedded files are part
// of the build, so a parse failure is a programming error and panics.
func Default() DataSet {
	defaultOnce.Do(func() {
		d, err := loadFrom(func(resource string) ([]byte, error) {
			return dataFilesRoot.ReadFile(dataBasePath + "/" + resource + ".yaml")
		})
		if err != nil {
			panic(fmt.Sprintf("embedded fixture data is invalid: %s", err))
		}
		defaultDataSet = d
	})
	return defaultDataSet
}

// LoadDir reads fixture files (products, categories, customers, orders) from
// an external directory, in YAML or JSON. Any resource that has no file in
// the directory falls back to the embedded default for that resource.
func LoadDir(dir string) (DataSet, error) {
	return loadFrom(func(resource string) ([]byte, error) {
		for _, ext := range dataFileExtensions {
			data, err := os.ReadFile(filepath.Join(dir, resource+ext))
			if err == nil {
				return data, nil
			}
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
		// fall back to the embedded copy
		return dataFilesRoot.ReadFile(dataBasePath + "/" + resource + ".yaml")
	})
}

func loadFrom(readResource func(resource string) ([]byte, error)) (DataSet, error) {
	var products []Product
	var categories []Category
	var customers []Customer
	var orders []Order

	if err := loadResource(readResource, "products", &products); err != nil {
		return DataSet{}, err
	}
	if err := loadResource(readResource, "categories", &categories); err != nil {
		return DataSet{}, err
	}
	if err := loadResource(readResource, "customers", &customers); err != nil {
		return DataSet{}, err
	}
	if err := loadResource(readResource, "orders", &orders); err != nil {
		return DataSet{}, err
	}

	return NewDataSet(products, categories, customers, orders), nil
}

func loadResource(readResource func(resource string) ([]byte, error), resource string, target interface{}) error {
	data, err := readResource(resource)
	if err != nil {
		return fmt.Errorf("failed to read %q fixtures: %w", resource, err)
	}
	if err := ParseJSONOrYAML(data, target); err != nil {
		return fmt.Errorf("error parsing %q fixtures: %w", resource, err)
	}
	return nil
}
