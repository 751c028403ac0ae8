package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/payment"
	"game_market_back_end/internal/store"
)

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (f *fakeOrderStore) Create(_ context.Context, buyer string, amount float64, items []models.CartItem, shipping, billing models.Address) (*models.Order, error) {
	now := time.Now()
	order := &models.Order{
		ID:              primitive.NewObjectID(),
		Buyer:           buyer,
		Total:           amount,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		OrderAt:         now,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		InvoiceNumber:   store.FormatInvoiceNumber(now, int64(len(f.orders)+1)),
	}
	for _, item := range items {
		order.Products = append(order.Products, models.OrderItem{
			ProductName: item.Title,
			ProductSKU:  item.SKU,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) SetPaymentStatus(_ context.Context, orderID primitive.ObjectID, status string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	order.PaymentStatus = status
	return nil
}

func (f *fakeOrderStore) SetLineQuantity(_ context.Context, orderID primitive.ObjectID, sku string, quantity int) error {
	order, ok := f.orders[orderID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range order.Products {
		if order.Products[i].ProductSKU == sku {
			order.Products[i].Quantity = quantity
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeOrderStore) PullLine(_ context.Context, orderID primitive.ObjectID, sku string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	lines := order.Products[:0]
	found := false
	for _, line := range order.Products {
		if line.ProductSKU == sku {
			found = true
			continue
		}
		lines = append(lines, line)
	}
	order.Products = lines
	if !found {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return order, nil
}

func (f *fakeOrderStore) List(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) ListByBuyer(_ context.Context, buyer string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.Buyer == buyer {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) Update(_ context.Context, orderID primitive.ObjectID, fields bson.M) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if total, ok := fields["total"]; ok {
		order.Total = total.(float64)
	}
	if status, ok := fields["orderStatus"]; ok {
		order.OrderStatus = status.(string)
	}
	if status, ok := fields["paymentStatus"]; ok {
		order.PaymentStatus = status.(string)
	}
	return order, nil
}

func (f *fakeOrderStore) Delete(_ context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.orders, orderID)
	return order, nil
}

func (f *fakeOrderStore) single(t *testing.T) *models.Order {
	t.Helper()
	require.Len(t, f.orders, 1)
	for _, o := range f.orders {
		return o
	}
	return nil
}

type fakeCheckoutCart struct {
	cart    *models.Cart
	emptied bool
}

func (f *fakeCheckoutCart) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if f.cart == nil || f.cart.UserID != userID {
		return nil, mongo.ErrNoDocuments
	}
	return f.cart, nil
}

func (f *fakeCheckoutCart) Empty(_ context.Context, _ primitive.ObjectID) error {
	f.emptied = true
	return nil
}

type fakeCheckoutCatalog struct {
	stocks map[string]int
}

func (f *fakeCheckoutCatalog) FindBySKU(_ context.Context, sku string) (*models.Product, *models.ProductVariant, error) {
	stock, ok := f.stocks[sku]
	if !ok {
		return nil, nil, mongo.ErrNoDocuments
	}
	return &models.Product{}, &models.ProductVariant{SKU: sku, Stock: stock}, nil
}

func (f *fakeCheckoutCatalog) DecrementStock(_ context.Context, sku string, quantity int) error {
	f.stocks[sku] -= quantity
	return nil
}

type fakeUserStore struct {
	user         *models.User
	savedAddress *models.Address
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, mongo.ErrNoDocuments
	}
	return f.user, nil
}

func (f *fakeUserStore) UpdateAddress(_ context.Context, _ primitive.ObjectID, address models.Address) error {
	f.savedAddress = &address
	return nil
}

type fakeCharger struct {
	result *payment.Result
	err    error
	calls  []int64
}

func (f *fakeCharger) Charge(amountMinor int64, _, _, _ string) (*payment.Result, error) {
	f.calls = append(f.calls, amountMinor)
	return f.result, f.err
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendEmail(to []string, subject, _ string, _ []byte, _ string) error {
	f.sent = append(f.sent, subject)
	_ = to
	return nil
}

type checkoutFixture struct {
	userID  primitive.ObjectID
	orders  *fakeOrderStore
	carts   *fakeCheckoutCart
	catalog *fakeCheckoutCatalog
	users   *fakeUserStore
	charger *fakeCharger
	mailer  *fakeMailer
	router  *gin.Engine
}

func newCheckoutFixture(stock int, result *payment.Result, chargeErr error) *checkoutFixture {
	userID := primitive.NewObjectID()
	f := &checkoutFixture{
		userID: userID,
		orders: newFakeOrderStore(),
		carts: &fakeCheckoutCart{cart: &models.Cart{
			UserID: userID,
			Items:  []models.CartItem{{SKU: "AAAA0001", Title: "Jeu", Price: 20, Quantity: 3}},
		}},
		catalog: &fakeCheckoutCatalog{stocks: map[string]int{"AAAA0001": stock}},
		users:   &fakeUserStore{user: &models.User{ID: userID, Email: "client@example.com"}},
		charger: &fakeCharger{result: result, err: chargeErr},
		mailer:  &fakeMailer{},
	}

	h := NewHandler(f.orders, f.carts, f.catalog, f.users, f.charger, f.mailer)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID.Hex())
		c.Set("email", "client@example.com")
		c.Next()
	})
	r.POST("/checkout", h.Checkout)
	f.router = r
	return f
}

func (f *checkoutFixture) checkout(body gin.H) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/checkout", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCheckoutSuccess(t *testing.T) {
	f := newCheckoutFixture(5, &payment.Result{ID: "ch_1", Status: "succeeded", Succeeded: true}, nil)

	w := f.checkout(gin.H{"token": "tok_visa"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		InvoiceNumber string `json:"invoiceNumber"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^FR-\d{12}-\d{6}$`, resp.InvoiceNumber)

	order := f.orders.single(t)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, f.userID.Hex(), order.Buyer)
	assert.Equal(t, 60.0, order.Total)

	// débit en centimes, panier vidé, stock décrémenté
	assert.Equal(t, []int64{6000}, f.charger.calls)
	assert.True(t, f.carts.emptied)
	assert.Equal(t, 2, f.catalog.stocks["AAAA0001"])
	assert.Len(t, f.mailer.sent, 1)
}

func TestCheckoutCardDeclined(t *testing.T) {
	f := newCheckoutFixture(5, &payment.Result{ID: "ch_2", Status: "failed", Succeeded: false}, nil)

	w := f.checkout(gin.H{"token": "tok_chargeDeclined"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Payment failed")

	// la commande reste PENDING, panier vidé et stock ajusté quand même
	order := f.orders.single(t)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, f.carts.emptied)
	assert.Equal(t, 2, f.catalog.stocks["AAAA0001"])
	assert.Empty(t, f.mailer.sent)
}

func TestCheckoutGatewayError(t *testing.T) {
	f := newCheckoutFixture(5, nil, errors.New("stripe indisponible"))

	w := f.checkout(gin.H{"token": "tok_visa"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// le panier n'a pas été vidé, le débit n'a jamais abouti
	assert.False(t, f.carts.emptied)
	assert.Equal(t, 5, f.catalog.stocks["AAAA0001"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(5, &payment.Result{Succeeded: true}, nil)
	f.carts.cart.Items = []models.CartItem{}

	w := f.checkout(gin.H{"token": "tok_visa"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.charger.calls)
	assert.Empty(t, f.orders.orders)
}

func TestCheckoutBoundsQuantityToStock(t *testing.T) {
	// 3 demandés, 2 en stock : la ligne est ramenée à 2 et le stock à zéro
	f := newCheckoutFixture(2, &payment.Result{Succeeded: true}, nil)

	w := f.checkout(gin.H{"token": "tok_visa"})
	require.Equal(t, http.StatusOK, w.Code)

	order := f.orders.single(t)
	require.Len(t, order.Products, 1)
	assert.Equal(t, 2, order.Products[0].Quantity)
	assert.Zero(t, f.catalog.stocks["AAAA0001"])
}

func TestCheckoutPullsOutOfStockLine(t *testing.T) {
	f := newCheckoutFixture(0, &payment.Result{Succeeded: true}, nil)

	w := f.checkout(gin.H{"token": "tok_visa"})
	require.Equal(t, http.StatusOK, w.Code)

	order := f.orders.single(t)
	assert.Empty(t, order.Products)
	assert.Zero(t, f.catalog.stocks["AAAA0001"])
}

func TestCheckoutSavesAddressOnDemand(t *testing.T) {
	f := newCheckoutFixture(5, &payment.Result{Succeeded: true}, nil)

	address := models.Address{Street: "1 rue de la Paix", City: "Paris", PostalCode: "75002", Country: "France"}
	w := f.checkout(gin.H{"token": "tok_visa", "addressAccount": true, "billingAddress": address})
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, f.users.savedAddress)
	assert.Equal(t, address, *f.users.savedAddress)
}
