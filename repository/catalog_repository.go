package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"storefront/models"
)

const catalogSchemaURL = "https://storefront.schemas.local/catalog.schema.json"

// catalogSchema describes the catalog document. Fields outside the listed
// required set are optional.
const catalogSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["products"],
	"properties": {
		"products": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "price", "category", "brand"],
				"properties": {
					"id":          {"type": "integer", "minimum": 1},
					"name":        {"type": "string", "minLength": 1},
					"price":       {"type": "number", "minimum": 0},
					"category":    {"type": "string"},
					"brand":       {"type": "string"},
					"rating":      {"type": ["number", "null"], "minimum": 0, "maximum": 5},
					"discount":    {"type": ["number", "null"], "minimum": 0, "maximum": 100},
					"description": {"type": ["string", "null"]},
					"image":       {"type": ["string", "null"]},
					"images":      {"type": ["array", "null"], "items": {"type": "string"}},
					"reviews": {
						"type": ["array", "null"],
						"items": {
							"type": "object",
							"properties": {
								"name":    {"type": "string"},
								"rating":  {"type": "number", "minimum": 0, "maximum": 5},
								"comment": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

// CatalogRepository reads, validates and decodes the product catalog
type CatalogRepository struct {
	source CatalogSourceInterface
	schema *jsonschema.Schema
}

// NewCatalogRepository creates a new CatalogRepository over source
func NewCatalogRepository(source CatalogSourceInterface) (*CatalogRepository, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, strings.NewReader(catalogSchema)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	compiled, err := c.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("catalog schema compile failed: %w", err)
	}
	return &CatalogRepository{source: source, schema: compiled}, nil
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// LoadProducts reads the catalog document and returns its products in document order.
// Every failure wraps models.ErrLoadFailure.
func (r *CatalogRepository) LoadProducts(ctx context.Context) ([]models.Product, error) {
	log.Printf("🔍 LoadProducts: Reading catalog from %s", r.source.Name())

	raw, err := r.source.Read(ctx)
	if err != nil {
		log.Printf("❌ Error reading catalog: %v", err)
		return nil, models.NewStoreError("catalog.read", models.ErrLoadFailure, err)
	}

	if r.source.Format() == "yaml" {
		raw, err = yamlToJSON(raw)
		if err != nil {
			log.Printf("❌ Error converting YAML catalog: %v", err)
			return nil, models.NewStoreError("catalog.parse", models.ErrLoadFailure, err)
		}
	}

	products, err := r.decode(raw)
	if err != nil {
		log.Printf("❌ Error decoding catalog: %v", err)
		return nil, models.NewStoreError("catalog.parse", models.ErrLoadFailure, err)
	}

	log.Printf("✓ Successfully loaded %d products from %s", len(products), r.source.Name())
	return products, nil
}

// decode validates raw JSON against the schema and unmarshals it
func (r *CatalogRepository) decode(raw []byte) ([]models.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog document: %w", err)
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("catalog does not match schema: %w", err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	seen := make(map[int]bool, len(catalog.Products))
	for _, p := range catalog.Products {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
	}

	if catalog.Products == nil {
		catalog.Products = []models.Product{}
	}
	return catalog.Products, nil
}

// yamlToJSON re-encodes a YAML document as JSON
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml is not representable as json: %w", err)
	}
	return out, nil
}
