package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loopxpress/backend/internal/awstest"
)

func newTestStore() *Store {
	mock := awstest.NewMockDynamo()
	mock.AddTable("products", "product_id")
	store := NewStore(mock, "products")
	store.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return store
}

func sampleProduct(id, sellerID string) Product {
	return Product{
		ProductID:         id,
		SellerID:          sellerID,
		Title:             "Steel Water Bottle",
		Brand:             "Milton",
		Colors:            []string{"silver"},
		ImageURLs:         []string{"https://img/bottle.jpg"},
		OriginalPrice:     79900,
		DiscountedPrice:   59900,
		Category:          "Kitchen",
		Subcategory:       "Bottles",
		Quantity:          50,
		Weight:            "300g",
		Description:       "Insulated stainless steel bottle, 750ml.",
		StockAlert:        5,
		ManufacturingDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Warranty:          "1 year",
		ShippingInfo:      "Ships in 2 days",
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	if err := store.Create(ctx, sampleProduct("p1", "s1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "p1")
	if err != nil || got == nil {
		t.Fatalf("get: %+v %v", got, err)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not stamped")
	}

	got.Quantity = 40
	if err := store.Update(ctx, *got); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ := store.Get(ctx, "p1")
	if after.Quantity != 40 {
		t.Fatalf("quantity: %d", after.Quantity)
	}

	if err := store.Update(ctx, sampleProduct("ghost", "s1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gone, _ := store.Get(ctx, "p1"); gone != nil {
		t.Fatal("product survived delete")
	}
}

func TestBySeller(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	for _, tc := range []struct{ id, seller string }{{"p1", "s1"}, {"p2", "s1"}, {"p3", "s2"}} {
		if err := store.Create(ctx, sampleProduct(tc.id, tc.seller)); err != nil {
			t.Fatalf("create %s: %v", tc.id, err)
		}
	}

	mine, err := store.BySeller(ctx, "s1")
	if err != nil {
		t.Fatalf("by seller: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("got %d products, want 2", len(mine))
	}

	all, err := store.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("list: %d %v", len(all), err)
	}
}
