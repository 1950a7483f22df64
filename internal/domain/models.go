package domain

// StockItem is one catalog entry. Two items may share a product name; the
// id is the only identity. Quantity is decremented only by sale recording.
type StockItem struct {
	ID            string  `json:"id"`
	ProductName   string  `json:"productName"`
	Category      string  `json:"category"`
	SupplierName  string  `json:"supplierName"`
	SupplierPhone string  `json:"supplierPhone,omitempty"`
	SupplierEmail string  `json:"supplierEmail,omitempty"`
	BuyingPrice   float64 `json:"buyingPrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Quantity      int     `json:"quantity"`
	Unit          string  `json:"unit"`
	EntryDate     string  `json:"entryDate"`
}

// SaleRecord captures a completed sale. ProductName, Category and Unit are
// snapshots taken from the stock item at sale time and are never recomputed,
// even after the catalog entry changes or is deleted.
type SaleRecord struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	Quantity      int     `json:"quantity"`
	PricePerUnit  float64 `json:"pricePerUnit"`
	TotalPrice    float64 `json:"totalPrice"`
	BuyerName     string  `json:"buyerName,omitempty"`
	BuyerLocation string  `json:"buyerLocation,omitempty"`
	BuyerPhone    string  `json:"buyerPhone,omitempty"`
	BuyerEmail    string  `json:"buyerEmail,omitempty"`
	SaleDate      string  `json:"saleDate"`
}

// BuyerRecord is a customer contact. Identity for dedup purposes is a
// non-empty phone or a case-insensitively equal non-empty email; the name is
// a display field, not a key.
type BuyerRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Stats are the dashboard aggregates.
type Stats struct {
	StockValue    float64 // sum of quantity * sellingPrice
	SalesValue    float64 // sum of totalPrice
	BuyerCount    int
	LowStockItems int
}
