package bookstore

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Millis is a timestamp exchanged as epoch milliseconds.
type Millis time.Time

// Time returns the underlying time.
func (m Millis) Time() time.Time { return time.Time(m) }

// MarshalJSON implements json.Marshaler.
func (m Millis) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, time.Time(m).UnixMilli(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*m = Millis(time.UnixMilli(ms))
	return nil
}

type CategoryView struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

func categoryView(c Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

// BookDetail is a book with its category name resolved at read time.
type BookDetail struct {
	ID           int64           `json:"id,string"`
	Title        string          `json:"title"`
	CategoryID   int64           `json:"categoryId,string"`
	CategoryName string          `json:"categoryName"`
	Author       string          `json:"author"`
	Price        decimal.Decimal `json:"price"`
}

func bookDetail(b Book, categoryName string) BookDetail {
	return BookDetail{
		ID:           b.ID,
		Title:        b.Title,
		CategoryID:   b.CategoryID,
		CategoryName: categoryName,
		Author:       b.Author,
		Price:        b.Price,
	}
}

// BookSnapshot is the current state of a book attached to cart responses.
type BookSnapshot struct {
	ID     int64           `json:"id,string"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Price  decimal.Decimal `json:"price"`
}

func bookSnapshot(b Book) *BookSnapshot {
	return &BookSnapshot{ID: b.ID, Title: b.Title, Author: b.Author, Price: b.Price}
}

// CartItem is a cart line joined with a fresh book snapshot.
type CartItem struct {
	ID          int64         `json:"id,string"`
	BookInfo    *BookSnapshot `json:"bookInfo"`
	Quantity    int           `json:"quantity"`
	CreatedTime Millis        `json:"createdTime"`
	UpdatedTime Millis        `json:"updatedTime"`
}

func cartItem(l CartLine, book *BookSnapshot) CartItem {
	return CartItem{
		ID:          l.ID,
		BookInfo:    book,
		Quantity:    l.Quantity,
		CreatedTime: Millis(l.CreatedTime),
		UpdatedTime: Millis(l.UpdatedTime),
	}
}

// CheckoutLine is one priced line of a checkout.
type CheckoutLine struct {
	BookID     int64           `json:"bookId,string"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Checkout is the priced snapshot of a cart.
type Checkout struct {
	Items      []CheckoutLine  `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}
