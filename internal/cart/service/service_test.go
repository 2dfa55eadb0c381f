package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aseara/internal/cart/store"
	catalogmodels "aseara/internal/catalog/models"
	id "aseara/pkg/domain"
	dErrors "aseara/pkg/domain-errors"
)

// fakeCatalog serves only the products it has been seeded with; everything
// else is a public not-found, same as an unpublished or deleted listing.
type fakeCatalog struct {
	products map[id.ProductID]*catalogmodels.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[id.ProductID]*catalogmodels.Product)}
}

func (f *fakeCatalog) seed(priceCents int64) *catalogmodels.Product {
	product, err := catalogmodels.NewProduct(id.NewProductID(), id.NewSupplierID(),
		"Listing", "", priceCents, time.Now())
	if err != nil {
		panic(err)
	}
	product.Published = true
	f.products[product.ID] = product
	return product
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID id.ProductID) (*catalogmodels.Product, error) {
	if product, ok := f.products[productID]; ok {
		return product, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
}

type CartServiceSuite struct {
	suite.Suite
	catalog *fakeCatalog
	service *Service
	ctx     context.Context
	session string
}

func (s *CartServiceSuite) SetupTest() {
	s.catalog = newFakeCatalog()
	s.service = New(store.NewInMemory(), s.catalog)
	s.ctx = context.Background()
	s.session = "11111111-2222-3333-4444-555555555555"
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceSuite))
}

func (s *CartServiceSuite) TestAddItem() {
	product := s.catalog.seed(12900)

	cart, err := s.service.AddItem(s.ctx, s.session, product.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, cart.Count())

	s.Run("accumulates and clamps at the per-item maximum", func() {
		cart, err := s.service.AddItem(s.ctx, s.session, product.ID, 98)
		s.Require().NoError(err)
		s.Equal(maxQuantityPerItem, cart.Items[product.ID.String()].Quantity)
	})

	s.Run("rejects non-positive and oversized quantities", func() {
		_, err := s.service.AddItem(s.ctx, s.session, product.ID, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.AddItem(s.ctx, s.session, product.ID, maxQuantityPerItem+1)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects unknown listings", func() {
		_, err := s.service.AddItem(s.ctx, s.session, id.NewProductID(), 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("requires a session", func() {
		_, err := s.service.AddItem(s.ctx, "", product.ID, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *CartServiceSuite) TestUpdateAndRemove() {
	product := s.catalog.seed(4500)
	_, err := s.service.AddItem(s.ctx, s.session, product.ID, 3)
	s.Require().NoError(err)

	cart, err := s.service.UpdateQuantity(s.ctx, s.session, product.ID, 1)
	s.Require().NoError(err)
	s.Equal(1, cart.Count())

	cart, err = s.service.RemoveItem(s.ctx, s.session, product.ID)
	s.Require().NoError(err)
	s.True(cart.IsEmpty())
}

func (s *CartServiceSuite) TestClear() {
	product := s.catalog.seed(4500)
	_, err := s.service.AddItem(s.ctx, s.session, product.ID, 3)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Clear(s.ctx, s.session))

	view, err := s.service.GetView(s.ctx, s.session)
	s.Require().NoError(err)
	s.Empty(view.Entries)
	s.Zero(view.TotalItems)
}

func (s *CartServiceSuite) TestGetView() {
	kettle := s.catalog.seed(8900)
	fan := s.catalog.seed(4500)
	_, err := s.service.AddItem(s.ctx, s.session, kettle.ID, 2)
	s.Require().NoError(err)
	_, err = s.service.AddItem(s.ctx, s.session, fan.ID, 1)
	s.Require().NoError(err)

	view, err := s.service.GetView(s.ctx, s.session)
	s.Require().NoError(err)
	s.Len(view.Entries, 2)
	s.Equal(3, view.TotalItems)
	s.Equal(int64(2*8900+4500), view.TotalCents)
}

func (s *CartServiceSuite) TestGetViewPrunesDelistedProducts() {
	kettle := s.catalog.seed(8900)
	fan := s.catalog.seed(4500)
	_, err := s.service.AddItem(s.ctx, s.session, kettle.ID, 2)
	s.Require().NoError(err)
	_, err = s.service.AddItem(s.ctx, s.session, fan.ID, 1)
	s.Require().NoError(err)

	// The fan goes off the catalog between requests.
	delete(s.catalog.products, fan.ID)

	view, err := s.service.GetView(s.ctx, s.session)
	s.Require().NoError(err)
	s.Require().Len(view.Entries, 1)
	s.Equal(kettle.ID, view.Entries[0].Product.ID)
	s.Equal(int64(2*8900), view.TotalCents)

	// The prune was written back, not just filtered from the response.
	again, err := s.service.GetView(s.ctx, s.session)
	s.Require().NoError(err)
	s.Len(again.Entries, 1)
}
