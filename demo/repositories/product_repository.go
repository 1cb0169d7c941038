package repositories

// Product is a demo product record.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductRepository provides access to product records.
type ProductRepository interface {
	GetByID(id int) (Product, bool)
	All() []Product
}

type memoryProductRepository struct {
	products []Product
}

// NewProductRepository returns an in-memory ProductRepository seeded
// with demo data.
func NewProductRepository() ProductRepository {
	return &memoryProductRepository{
		products: []Product{
			{ID: 1, Name: "Laptop", Price: 999.99},
			{ID: 2, Name: "Mouse", Price: 29.99},
		},
	}
}

func (r *memoryProductRepository) GetByID(id int) (Product, bool) {
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (r *memoryProductRepository) All() []Product {
	return r.products
}
