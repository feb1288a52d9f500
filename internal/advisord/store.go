package advisord

import (
	"database/sql"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/product-advisor/go-client/internal/catalog"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	subcategory TEXT,
	brand       TEXT NOT NULL,
	price       REAL NOT NULL,
	rating      REAL NOT NULL DEFAULT 0,
	inventory   INTEGER NOT NULL DEFAULT 0,
	description TEXT,
	features    TEXT NOT NULL DEFAULT '[]',
	tags        TEXT NOT NULL DEFAULT '[]',
	position    INTEGER NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store keeps the served catalog in SQLite. position preserves the seed
// order so clients see a stable, deterministic listing.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store-struct

// #region import

// Import replaces the stored catalog with the given products.
func (s *Store) Import(products []catalog.Product) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	for i, p := range products {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("marshal features for %s: %w", p.ID, err)
		}
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", p.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO products (id, name, category, subcategory, brand, price, rating, inventory, description, features, tags, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Category, nullIfEmpty(p.Subcategory), p.Brand, p.Price,
			p.Rating, p.Inventory, nullIfEmpty(p.Description), string(features), string(tags), i,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// ImportJSON reads a product list in the seed file format and stores it.
// Returns how many products were imported.
func (s *Store) ImportJSON(r io.Reader) (int, error) {
	var products []catalog.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	if err := s.Import(products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// #endregion import

// #region queries

const selectColumns = `id, name, category, subcategory, brand, price, rating, inventory, description, features, tags`

// All returns every stored product in seed order.
func (s *Store) All() ([]catalog.Product, error) {
	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ByID retrieves one product.
func (s *Store) ByID(id string) (catalog.Product, bool, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

// ByCategory returns products in one category, in seed order.
func (s *Store) ByCategory(category string) ([]catalog.Product, error) {
	rows, err := s.db.Query(
		`SELECT `+selectColumns+` FROM products WHERE category = ? ORDER BY position`, category)
	if err != nil {
		return nil, fmt.Errorf("list category %s: %w", category, err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// #endregion queries

// #region scan

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var p catalog.Product
	var subcategory, description sql.NullString
	var features, tags string

	err := row.Scan(&p.ID, &p.Name, &p.Category, &subcategory, &p.Brand, &p.Price,
		&p.Rating, &p.Inventory, &description, &features, &tags)
	if err == sql.ErrNoRows {
		return catalog.Product{}, err
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("scan product: %w", err)
	}

	if subcategory.Valid {
		p.Subcategory = subcategory.String
	}
	if description.Valid {
		p.Description = description.String
	}
	if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
		return catalog.Product{}, fmt.Errorf("unmarshal features for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return catalog.Product{}, fmt.Errorf("unmarshal tags for %s: %w", p.ID, err)
	}
	return p, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion scan
