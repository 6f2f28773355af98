package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
	"folik-store/internal/migrate"
	cartrepo "folik-store/internal/repository/cart"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, product_images, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, title, price string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (title, price) VALUES ($1, $2::numeric) RETURNING id::text
`, title, price).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPostgres_CreateFromCartClearsCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")
	mugID := insertProduct(ctx, t, pool, "Mug", "15.00")

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := carts.Add(ctx, "sess-1", mugID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	order, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-1",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
	})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}

	fetched, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.FullName != "Ada Lovelace" || fetched.IsProcessed {
		t.Fatalf("unexpected order %+v", fetched)
	}
	if !fetched.Total().Equal(dec("35.00")) {
		t.Fatalf("expected total 35.00, got %s", fetched.Total())
	}

	remaining, err := carts.ListBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("checkout must clear the cart, got %+v", remaining)
	}
}

func TestPostgres_CreateFromCartReturnsPricedItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")
	mugID := insertProduct(ctx, t, pool, "Mug", "15.00")

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := carts.Add(ctx, "sess-1", mugID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	order, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-1",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
	})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	// The confirmation is priced from the returned order, so its items must
	// carry their product rows without a second fetch.
	for _, item := range order.Items {
		if item.Product == nil {
			t.Fatalf("returned item %s has no product data", item.ID)
		}
	}
	if !order.Total().Equal(dec("35.00")) {
		t.Fatalf("expected returned order total 35.00, got %s", order.Total())
	}
}

func TestPostgres_CreateFromCartAppliesOverrides(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")

	carts := cartrepo.NewPostgres(pool)
	line, err := carts.Add(ctx, "sess-1", shirtID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	order, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-1",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
		Overrides:  map[string]int{line.ID: 5},
	})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 5 {
		t.Fatalf("expected overridden quantity 5, got %+v", order.Items)
	}
}

func TestPostgres_CreateFromCartEmptySession(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	_, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-empty",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
	})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestPostgres_SecondCheckoutSeesEmptyCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	in := CreateFromCartInput{SessionKey: "sess-1", FullName: "Ada Lovelace", Phone: "+15551234567"}
	if _, err := repo.CreateFromCart(ctx, in); err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}
	if _, err := repo.CreateFromCart(ctx, in); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart on second checkout, got %v", err)
	}

	orders, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected a single order, got %d", len(orders))
	}
}

func TestPostgres_SetProcessed(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	order, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-1",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
	})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	if err := repo.SetProcessed(ctx, order.ID, true); err != nil {
		t.Fatalf("SetProcessed: %v", err)
	}
	fetched, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !fetched.IsProcessed {
		t.Fatalf("expected order to be processed")
	}

	if err := repo.SetProcessed(ctx, "b4b2a4f2-7b0a-4d3c-9a63-0aa4c3f1d999", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgres_DeletedProductLeavesNullReference(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	shirtID := insertProduct(ctx, t, pool, "Shirt", "10.00")
	mugID := insertProduct(ctx, t, pool, "Mug", "15.00")

	carts := cartrepo.NewPostgres(pool)
	if _, err := carts.Add(ctx, "sess-1", shirtID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := carts.Add(ctx, "sess-1", mugID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo := NewPostgres(pool, nil)
	order, err := repo.CreateFromCart(ctx, CreateFromCartInput{
		SessionKey: "sess-1",
		FullName:   "Ada Lovelace",
		Phone:      "+15551234567",
	})
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, mugID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	fetched, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Items) != 2 {
		t.Fatalf("expected both items to survive, got %d", len(fetched.Items))
	}

	var ghost *domain.OrderItem
	for i := range fetched.Items {
		if fetched.Items[i].Product == nil {
			ghost = &fetched.Items[i]
		}
	}
	if ghost == nil {
		t.Fatalf("expected one item without a product, got %+v", fetched.Items)
	}
	if ghost.ProductID != nil {
		t.Fatalf("expected nulled product reference, got %v", *ghost.ProductID)
	}
	if !fetched.Total().Equal(dec("10.00")) {
		t.Fatalf("deleted product must drop out of the total, got %s", fetched.Total())
	}
}
