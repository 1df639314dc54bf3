package model

// ShoppingCart represents a named cart with a delivery address.
type ShoppingCart struct {
	ID      int64
	Name    string
	Address string
}

// ShoppingCartItem represents a quantity of one product placed in a cart.
type ShoppingCartItem struct {
	ID             int64
	ShoppingCartID *int64
	ProductID      int64
	Quantity       int
}

// Validate checks the cart item constraints.
func (i *ShoppingCartItem) Validate() error {
	errs := &ValidationError{}
	checkVar(errs, FieldQuantity, i.Quantity, "min=1,max=100")
	return errs.OrNil()
}
