package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names shared by the generator, the sinks and the query layer.
const (
	StoresCollection    = "stores"
	ProductsCollection  = "products"
	CustomersCollection = "customers"
	OrdersCollection    = "orders"
)

// Collections lists every collection in load order.
var Collections = []string{StoresCollection, ProductsCollection, CustomersCollection, OrdersCollection}

const DefaultOrderStatus = "completed"

type Store struct {
	StoreID  string    `bson:"storeId" json:"storeId"`
	Name     string    `bson:"name" json:"name"`
	Address  string    `bson:"address" json:"address"`
	City     string    `bson:"city" json:"city"`
	State    string    `bson:"state" json:"state"`
	Region   string    `bson:"region" json:"region"`
	Manager  string    `bson:"manager" json:"manager"`
	Phone    string    `bson:"phone" json:"phone"`
	OpenDate time.Time `bson:"openDate" json:"openDate"`
}

type Product struct {
	ProductID   string   `bson:"productId" json:"productId"`
	Name        string   `bson:"name" json:"name"`
	Category    string   `bson:"category" json:"category"`
	Subcategory string   `bson:"subcategory" json:"subcategory"`
	SKU         string   `bson:"sku" json:"sku"`
	Price       float64  `bson:"price" json:"price"`
	Cost        float64  `bson:"cost" json:"cost"`
	Inventory   int      `bson:"inventory" json:"inventory"`
	Tags        []string `bson:"tags" json:"tags"`
}

type Customer struct {
	CustomerID  string    `bson:"customerId" json:"customerId"`
	FirstName   string    `bson:"firstName" json:"firstName"`
	LastName    string    `bson:"lastName" json:"lastName"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone" json:"phone"`
	LoyaltyTier string    `bson:"loyaltyTier" json:"loyaltyTier"`
	TotalSpend  float64   `bson:"totalSpend" json:"totalSpend"`
	JoinDate    time.Time `bson:"joinDate" json:"joinDate"`
}

type LineItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
}

// Order is a point-of-sale transaction. Generated orders drift on purpose:
// some carry TotalAmount instead of Total and some have no CustomerID, so
// both are optional and readers must tolerate either shape.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OrderID       string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	StoreID       string             `bson:"storeId" json:"storeId"`
	CustomerID    *string            `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Items         []LineItem         `bson:"items" json:"items"`
	PaymentMethod string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	Total         *float64           `bson:"total,omitempty" json:"total,omitempty"`
	TotalAmount   *float64           `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
}

// Amount returns the order total from whichever field holds it.
func (o *Order) Amount() (float64, bool) {
	switch {
	case o.Total != nil:
		return *o.Total, true
	case o.TotalAmount != nil:
		return *o.TotalAmount, true
	}
	return 0, false
}

// MarshalJSON leaves out an unset _id. encoding/json never treats an
// ObjectID as empty, so without this every unsaved order would carry
// "000000000000000000000000".
func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	doc := struct {
		ID *primitive.ObjectID `json:"_id,omitempty"`
		order
	}{order: order(o)}
	if !o.ID.IsZero() {
		doc.ID = &o.ID
	}
	return json.Marshal(doc)
}

// HasCustomer reports whether the order references the given customer.
func (o *Order) HasCustomer(customerID string) bool {
	return o.CustomerID != nil && *o.CustomerID == customerID
}

/*
MongoDB document structure:

stores:    { storeId, name, address, city, state, region, manager, phone, openDate: <date> }
products:  { productId, name, category, subcategory, sku, price, cost, inventory, tags: [<string>] }
customers: { customerId, firstName, lastName, email, phone, loyaltyTier, totalSpend, joinDate: <date> }
orders: {
  _id: <ObjectId>,
  orderId: <string>,
  storeId: <string>,
  customerId: <string>,        // missing on ~3% of generated orders
  items: [ { productId, name, quantity, unitPrice, subtotal } ],
  paymentMethod: <string>,
  status: <string>,
  createdAt: <date>,
  total: <number>              // stored as total_amount on ~5% of generated orders
}

No secondary indexes are declared.
*/
